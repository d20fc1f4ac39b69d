// Package scheduler implements the Cognitive Scheduler (C5): a supervisor
// plus worker pool that detects agent idleness, schedules retrospection,
// ideation, exploration and synthesis jobs onto a dual-priority queue, and
// dispatches them to the Retrospection Engine (C4) and Knowledge Explorer
// (C3).
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"unified-thinking/internal/explorer"
	"unified-thinking/internal/retrospection"
	"unified-thinking/internal/statestore"
	"unified-thinking/internal/types"
)

const (
	retrospectionPriority = 7
	ideationPriority      = 5
	explorationPriority   = 3
	synthesisPriority     = 6
	userDirectedPriority  = 10

	dequeueWait   = 5 * time.Second
	supervisorTick = 2 * time.Second
	defaultWorkerCount = 2

	defaultMinIdleDuration    = 10 * time.Second
	defaultIdeationInterval   = 120 * time.Second
	defaultExplorationInterval = 180 * time.Second
	defaultTaskTimeout        = 180 * time.Second

	trackUserDirected = "user_directed"
	trackAutonomous   = "autonomous"
)

// Scheduler is the long-lived background service described in §4.4.
type Scheduler struct {
	store      statestore.Store
	retro      *retrospection.Engine
	explore    *explorer.Explorer

	workerCount   int
	minIdle       time.Duration
	checkInterval time.Duration
	ideationEvery time.Duration
	explorationEvery time.Duration
	taskTimeout   time.Duration

	queue *priorityQueue
	stats *stats

	userSem chan struct{}
	autoSem chan struct{}

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithWorkerCount overrides the default worker count (2).
func WithWorkerCount(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithIdleDetection overrides the default idle-detection timings.
func WithIdleDetection(minIdle, checkInterval time.Duration) Option {
	return func(s *Scheduler) {
		if minIdle > 0 {
			s.minIdle = minIdle
		}
		if checkInterval > 0 {
			s.checkInterval = checkInterval
		}
	}
}

// WithCognitiveTaskIntervals overrides the default ideation/exploration
// cadences and the per-job timeout.
func WithCognitiveTaskIntervals(ideation, exploration, taskTimeout time.Duration) Option {
	return func(s *Scheduler) {
		if ideation > 0 {
			s.ideationEvery = ideation
		}
		if exploration > 0 {
			s.explorationEvery = exploration
		}
		if taskTimeout > 0 {
			s.taskTimeout = taskTimeout
		}
	}
}

// WithDualTrackCapacity overrides the default independent worker
// capacities for user-directed (3) and autonomous (1) exploration jobs.
func WithDualTrackCapacity(userCap, autoCap int) Option {
	return func(s *Scheduler) {
		if userCap > 0 {
			s.userSem = make(chan struct{}, userCap)
		}
		if autoCap > 0 {
			s.autoSem = make(chan struct{}, autoCap)
		}
	}
}

// New constructs a Scheduler. store is required; retro/explore may be nil,
// in which case their job kinds complete without panicking the worker:
// retrospection jobs return an error result and exploration jobs an empty
// result.
func New(store statestore.Store, retro *retrospection.Engine, explore *explorer.Explorer, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:            store,
		retro:            retro,
		explore:          explore,
		workerCount:      defaultWorkerCount,
		minIdle:          defaultMinIdleDuration,
		checkInterval:    supervisorTick,
		ideationEvery:    defaultIdeationInterval,
		explorationEvery: defaultExplorationInterval,
		taskTimeout:      defaultTaskTimeout,
		queue:            newPriorityQueue(),
		stats:            newStats(),
		userSem:          make(chan struct{}, 3),
		autoSem:          make(chan struct{}, 1),
		stopCh:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	store.AddStateChangeListener(func(statestore.Event) {
		s.stats.recordActivity()
	})

	return s
}

// Start launches the supervisor and worker fibers. Safe to call once;
// calling twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.supervise()

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.work(i)
	}
}

// Stop signals shutdown and joins the supervisor and all workers with a
// bounded wait per fiber (§4.4). Jobs still in the queue are discarded.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second * time.Duration(s.workerCount+1)):
		log.Printf("scheduler: shutdown wait exceeded bound, proceeding anyway")
	}
}

// ScheduleUserDirectedExploration enqueues a priority-10 exploration job at
// the head of the queue (§4.4, §6).
func (s *Scheduler) ScheduleUserDirectedExploration(userQuery string, explorationCtx types.Metadata) string {
	ctx := types.Metadata{}
	for k, v := range explorationCtx {
		ctx[k] = v
	}
	ctx["user_query"] = userQuery
	ctx["exploration_mode"] = string(types.ExplorationUserDirected)
	ctx["track"] = trackUserDirected

	job := &types.CognitiveJob{
		JobID:    fmt.Sprintf("job_exploration_user_%s", uuid.New().String()),
		Kind:     types.JobExploration,
		Priority: userDirectedPriority,
		Context:  ctx,
		CreatedAt: time.Now(),
	}
	s.queue.EnqueueHead(job)
	return job.JobID
}

// PerformRetrospection is a synchronous one-shot invocation, independent of
// the scheduler loop (§6).
func (s *Scheduler) PerformRetrospection(strategy retrospection.SelectionStrategy, targetTaskID string) *types.RetrospectionResult {
	if s.retro == nil {
		return &types.RetrospectionResult{Status: types.RetrospectionError, ErrorMessage: "retrospection engine not configured"}
	}
	return s.retro.PerformRetrospection(s.store, strategy, targetTaskID)
}

// GetStatus returns a snapshot of mode, idle flag, queue depth, active
// jobs, and counters (§6).
func (s *Scheduler) GetStatus() Status {
	return s.stats.snapshot(s.queue.Len())
}

func (s *Scheduler) schedule(kind types.JobKind, priority int, ctx types.Metadata) {
	job := &types.CognitiveJob{
		JobID:     fmt.Sprintf("job_%s_%s", kind, uuid.New().String()),
		Kind:      kind,
		Priority:  priority,
		Context:   ctx,
		CreatedAt: time.Now(),
	}
	s.queue.Enqueue(job)
}
