package scheduler

import (
	"sync"
	"time"

	"unified-thinking/internal/types"
)

// jobRecord is one completed job's history entry (§4.4 step 3).
type jobRecord struct {
	JobID         string
	Kind          types.JobKind
	Result        interface{}
	ExecutionTime time.Duration
	Worker        int
	Timestamp     time.Time
}

const historySoftCap = 200

// Status is the snapshot returned by GetStatus (§6).
type Status struct {
	Mode           Mode
	Idle           bool
	QueueDepth     int
	ActiveJobs     int
	CompletedJobs  uint64
	TimedOutJobs   uint64
	LastActivity   time.Time
	LastCompletion time.Time
}

// stats holds the scheduler's mutable counters and history, guarded by a
// single lock per §5's "mutated under the supervisor's lock or the worker
// completion path" rule.
type stats struct {
	mu sync.Mutex

	mode Mode

	lastActivityTime   time.Time
	lastCompletionTime time.Time
	lastIdeationTime    time.Time
	lastExplorationTime time.Time

	completedSinceLastSynthesis int
	completedJobs                uint64
	timedOutJobs                 uint64

	active  map[string]activeJob
	history []jobRecord
}

type activeJob struct {
	job       *types.CognitiveJob
	startedAt time.Time
}

func newStats() *stats {
	now := time.Now()
	return &stats{
		mode:               ModeTaskDriven,
		lastActivityTime:   now,
		lastCompletionTime: now,
		active:             make(map[string]activeJob),
	}
}

func (s *stats) setMode(m Mode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

func (s *stats) recordActivity() {
	s.mu.Lock()
	s.lastActivityTime = time.Now()
	s.mu.Unlock()
}

func (s *stats) recordCompletion() {
	s.mu.Lock()
	s.lastCompletionTime = time.Now()
	s.mu.Unlock()
}

func (s *stats) markActive(job *types.CognitiveJob) {
	s.mu.Lock()
	s.active[job.JobID] = activeJob{job: job, startedAt: time.Now()}
	s.mu.Unlock()
}

func (s *stats) clearActive(jobID string) {
	s.mu.Lock()
	delete(s.active, jobID)
	s.mu.Unlock()
}

// evictTimedOut removes active jobs older than timeout, returning how many
// were evicted, per §4.4's supervisor-tick cleanup.
func (s *stats) evictTimedOut(timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	now := time.Now()
	for id, a := range s.active {
		if now.Sub(a.startedAt) > timeout {
			delete(s.active, id)
			s.timedOutJobs++
			evicted++
		}
	}
	return evicted
}

func (s *stats) appendHistory(rec jobRecord) {
	s.mu.Lock()
	s.history = append(s.history, rec)
	if len(s.history) > historySoftCap {
		s.history = s.history[len(s.history)/2:]
	}
	s.completedJobs++
	s.completedSinceLastSynthesis++
	s.mu.Unlock()
}

// takeSynthesisDue reports whether 5 cognitive jobs have completed since
// the last synthesis job was scheduled, resetting the counter if so
// (§4.4: "every 5 completed cognitive jobs schedule a synthesis job").
func (s *stats) takeSynthesisDue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completedSinceLastSynthesis >= 5 {
		s.completedSinceLastSynthesis = 0
		return true
	}
	return false
}

func (s *stats) snapshot(queueDepth int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Mode:           s.mode,
		Idle:           s.mode != ModeTaskDriven,
		QueueDepth:     queueDepth,
		ActiveJobs:     len(s.active),
		CompletedJobs:  s.completedJobs,
		TimedOutJobs:   s.timedOutJobs,
		LastActivity:   s.lastActivityTime,
		LastCompletion: s.lastCompletionTime,
	}
}
