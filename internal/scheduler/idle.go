package scheduler

import (
	"time"

	"unified-thinking/internal/statestore"
	"unified-thinking/internal/types"
)

// supervise is the supervisor fiber: every checkInterval it consults the
// state store for idleness, drives the mode machine, schedules background
// cognitive jobs on the configured cadences, and evicts timed-out active
// jobs (§4.4).
func (s *Scheduler) supervise() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	current := s.store.CurrentState()
	idle := isIdle(current)

	if !idle {
		s.stats.recordCompletion()
		s.stats.setMode(ModeTaskDriven)
		s.stats.evictTimedOut(s.taskTimeout)
		return
	}

	s.stats.mu.Lock()
	sinceCompletion := time.Since(s.stats.lastCompletionTime)
	sinceActivity := time.Since(s.stats.lastActivityTime)
	sinceIdeation := time.Since(s.stats.lastIdeationTime)
	sinceExploration := time.Since(s.stats.lastExplorationTime)
	wasIdle := s.stats.mode != ModeTaskDriven
	s.stats.mu.Unlock()

	if !wasIdle && sinceCompletion >= s.minIdle {
		s.stats.setMode(ModeDeepReflection)
		s.schedule(types.JobRetrospection, retrospectionPriority, types.Metadata{})
		s.stats.mu.Lock()
		s.stats.lastIdeationTime = time.Now()
		s.stats.lastExplorationTime = time.Now()
		s.stats.mu.Unlock()
	}

	if wasIdle {
		if sinceActivity >= s.ideationEvery && sinceIdeation >= s.ideationEvery {
			s.stats.setMode(ModeCreativeIdeation)
			s.schedule(types.JobIdeation, ideationPriority, types.Metadata{})
			s.stats.mu.Lock()
			s.stats.lastIdeationTime = time.Now()
			s.stats.mu.Unlock()
		}
		if sinceExploration >= s.explorationEvery {
			s.stats.setMode(ModeKnowledgeExploration)
			s.schedule(types.JobExploration, explorationPriority, types.Metadata{
				"exploration_mode": string(types.ExplorationAutonomous),
				"track":            trackAutonomous,
			})
			s.stats.mu.Lock()
			s.stats.lastExplorationTime = time.Now()
			s.stats.mu.Unlock()
		}
	}

	if s.stats.takeSynthesisDue() {
		s.schedule(types.JobSynthesis, synthesisPriority, types.Metadata{})
	}

	s.stats.evictTimedOut(s.taskTimeout)
}

// isIdle reports whether the agent is considered idle per §4.4: phase is
// completion, or goal status has reached a terminal state.
func isIdle(state statestore.CurrentState) bool {
	if state.CurrentPhase == statestore.PhaseCompletion {
		return true
	}
	return state.GoalStatus == statestore.GoalAchieved || state.GoalStatus == statestore.GoalFailed
}
