package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"unified-thinking/internal/types"
)

// work is a worker fiber: it blocks up to dequeueWait on the queue, then
// dispatches, records, and clears the job per §4.4's four-step worker
// protocol.
func (s *Scheduler) work(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		job := s.dequeueWithTimeout()
		if job == nil {
			continue
		}

		s.runJob(id, job)
	}
}

// dequeueWithTimeout blocks up to dequeueWait for a job to appear, waking
// early on the queue's notify channel or on shutdown.
func (s *Scheduler) dequeueWithTimeout() *types.CognitiveJob {
	if job := s.queue.Dequeue(); job != nil {
		return job
	}

	timer := time.NewTimer(dequeueWait)
	defer timer.Stop()

	select {
	case <-s.stopCh:
		return nil
	case <-s.queue.notify:
		return s.queue.Dequeue()
	case <-timer.C:
		return nil
	}
}

func (s *Scheduler) runJob(workerID int, job *types.CognitiveJob) {
	s.stats.markActive(job)
	defer s.stats.clearActive(job.JobID)

	start := time.Now()
	result := s.dispatch(job)
	elapsed := time.Since(start)

	s.stats.appendHistory(jobRecord{
		JobID:         job.JobID,
		Kind:          job.Kind,
		Result:        result,
		ExecutionTime: elapsed,
		Worker:        workerID,
		Timestamp:     time.Now(),
	})
}

func (s *Scheduler) dispatch(job *types.CognitiveJob) interface{} {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: job %s panicked: %v", job.JobID, r)
		}
	}()

	switch job.Kind {
	case types.JobRetrospection:
		return s.dispatchRetrospection(job)
	case types.JobExploration:
		return s.dispatchExploration(job)
	case types.JobIdeation:
		return s.dispatchIdeation(job)
	case types.JobSynthesis:
		return s.dispatchSynthesis(job)
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

func (s *Scheduler) dispatchRetrospection(job *types.CognitiveJob) *types.RetrospectionResult {
	if s.retro == nil {
		return &types.RetrospectionResult{Status: types.RetrospectionError, ErrorMessage: "retrospection engine not configured"}
	}
	return s.retro.PerformRetrospection(s.store, "", "")
}

func (s *Scheduler) dispatchExploration(job *types.CognitiveJob) *types.ExplorationResult {
	track, _ := job.Context["track"].(string)
	sem := s.autoSem
	if track == trackUserDirected {
		sem = s.userSem
	}

	sem <- struct{}{}
	defer func() { <-sem }()

	if s.explore == nil {
		return &types.ExplorationResult{}
	}

	target := types.ExplorationTarget{
		TargetID:    job.JobID,
		Type:        "scheduled",
		Description: contextString(job.Context, "user_query", "autonomous knowledge exploration"),
		Metadata:    job.Context,
	}

	ctx := context.Background()
	result, err := s.explore.Explore(ctx, []types.ExplorationTarget{target}, "")
	if err != nil {
		return &types.ExplorationResult{}
	}
	return result
}

// dispatchIdeation is a local handler: until a creative-ideation
// collaborator is wired, it emits a structured placeholder dimension set
// so the job history still records a meaningful result.
func (s *Scheduler) dispatchIdeation(job *types.CognitiveJob) []types.Dimension {
	return []types.Dimension{{
		DimensionID:     fmt.Sprintf("dim_autonomous_%s", uuid.New().String()),
		Description:     "autonomous creative-ideation placeholder",
		CreativityLevel: types.CreativityMedium,
	}}
}

// dispatchSynthesis is a local handler: until a synthesis collaborator is
// wired, it emits a structured placeholder meta-insight summarizing recent
// history depth.
func (s *Scheduler) dispatchSynthesis(job *types.CognitiveJob) string {
	return fmt.Sprintf("synthesis placeholder over %d queued job(s)", s.queue.Len())
}

func contextString(ctx types.Metadata, key, fallback string) string {
	if v, ok := ctx[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
