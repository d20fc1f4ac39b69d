package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/explorer"
	"unified-thinking/internal/llmiface"
	"unified-thinking/internal/reinforcement"
	"unified-thinking/internal/retrospection"
	"unified-thinking/internal/statestore"
	"unified-thinking/internal/types"
)

func newTestScheduler(opts ...Option) (*Scheduler, *statestore.MemoryStore) {
	store := statestore.NewMemoryStore()
	retro := retrospection.New(retrospection.DefaultConfig(), llmiface.NewMockDimensionCreator(), llmiface.NewMockPathGenerator(), reinforcement.NewThompsonSelector(7))
	exp := explorer.New(explorer.DefaultConfig(), llmiface.NewMockSemanticAnalyzer(), llmiface.NewMockWebSearchClient(), nil, nil)
	s := New(store, retro, exp, opts...)
	return s, store
}

func TestPriorityQueue_OrdersByPriorityThenInsertion(t *testing.T) {
	q := newPriorityQueue()
	q.Enqueue(&types.CognitiveJob{JobID: "a", Priority: 3})
	q.Enqueue(&types.CognitiveJob{JobID: "b", Priority: 7})
	q.Enqueue(&types.CognitiveJob{JobID: "c", Priority: 7})
	q.Enqueue(&types.CognitiveJob{JobID: "d", Priority: 5})

	assert.Equal(t, "b", q.Dequeue().JobID)
	assert.Equal(t, "c", q.Dequeue().JobID)
	assert.Equal(t, "d", q.Dequeue().JobID)
	assert.Equal(t, "a", q.Dequeue().JobID)
	assert.Nil(t, q.Dequeue())
}

func TestPriorityQueue_EnqueueHeadSplicesAheadOfLowerPriority(t *testing.T) {
	q := newPriorityQueue()
	q.Enqueue(&types.CognitiveJob{JobID: "autonomous-1", Priority: 3})
	q.Enqueue(&types.CognitiveJob{JobID: "autonomous-2", Priority: 3})
	q.EnqueueHead(&types.CognitiveJob{JobID: "user-directed", Priority: 10})

	assert.Equal(t, 3, q.Len())
	first := q.Dequeue()
	assert.Equal(t, "user-directed", first.JobID)
}

func TestScheduler_ScheduleUserDirectedExplorationUsesHighestPriority(t *testing.T) {
	s, _ := newTestScheduler()
	s.schedule(types.JobExploration, explorationPriority, types.Metadata{"track": trackAutonomous})

	jobID := s.ScheduleUserDirectedExploration("what is quantum annealing", types.Metadata{})
	require.NotEmpty(t, jobID)

	job := s.queue.Dequeue()
	require.NotNil(t, job)
	assert.Equal(t, jobID, job.JobID)
	assert.Equal(t, userDirectedPriority, job.Priority)
	assert.Equal(t, "what is quantum annealing", job.Context["user_query"])
	assert.Equal(t, trackUserDirected, job.Context["track"])
}

func TestScheduler_GetStatusReflectsQueueDepth(t *testing.T) {
	s, _ := newTestScheduler()
	s.schedule(types.JobIdeation, ideationPriority, types.Metadata{})
	s.schedule(types.JobSynthesis, synthesisPriority, types.Metadata{})

	status := s.GetStatus()
	assert.Equal(t, 2, status.QueueDepth)
	assert.Equal(t, ModeTaskDriven, status.Mode)
	assert.False(t, status.Idle)
}

func TestScheduler_PerformRetrospectionDelegatesToEngine(t *testing.T) {
	s, store := newTestScheduler()
	store.RecordTurn(types.ConversationTurn{
		TurnID:    "t1",
		Timestamp: time.Now().Add(-2 * time.Minute),
		Success:   true,
		Phase:     "completion",
		UserInput: "explain the halting problem in more than ten characters",
	}, statestore.GoalAchieved)

	result := s.PerformRetrospection(retrospection.StrategyRecentTasks, "")
	require.NotNil(t, result)
	assert.Equal(t, types.RetrospectionOK, result.Status)
}

func TestScheduler_PerformRetrospectionWithoutEngineReturnsError(t *testing.T) {
	store := statestore.NewMemoryStore()
	s := New(store, nil, nil)

	result := s.PerformRetrospection("", "")
	require.NotNil(t, result)
	assert.Equal(t, types.RetrospectionError, result.Status)
}

func TestScheduler_TickTransitionsToDeepReflectionWhenIdle(t *testing.T) {
	s, store := newTestScheduler(WithIdleDetection(1*time.Millisecond, 5*time.Millisecond))
	store.RecordTurn(types.ConversationTurn{TurnID: "t1", Timestamp: time.Now(), Success: true, Phase: "completion"}, statestore.GoalAchieved)

	time.Sleep(5 * time.Millisecond)
	s.tick()

	status := s.GetStatus()
	assert.Equal(t, ModeDeepReflection, status.Mode)
	assert.True(t, status.Idle)
	assert.Equal(t, 1, status.QueueDepth)

	job := s.queue.Dequeue()
	require.NotNil(t, job)
	assert.Equal(t, types.JobRetrospection, job.Kind)
}

func TestScheduler_TickResetsToTaskDrivenWhenActive(t *testing.T) {
	s, store := newTestScheduler()
	store.ResumeActivity()
	s.stats.setMode(ModeDeepReflection)

	s.tick()

	assert.Equal(t, ModeTaskDriven, s.GetStatus().Mode)
}

func TestScheduler_DualTrackCapacityIsConfigurable(t *testing.T) {
	s, _ := newTestScheduler(WithDualTrackCapacity(2, 1))
	assert.Equal(t, 2, cap(s.userSem))
	assert.Equal(t, 1, cap(s.autoSem))
}

func TestScheduler_StartStopLifecycleIsIdempotentAndBounded(t *testing.T) {
	s, _ := newTestScheduler(WithWorkerCount(1), WithIdleDetection(time.Hour, time.Hour))
	s.Start()
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return within bound")
	}
}

func TestScheduler_DispatchExplorationAcquiresTrackSemaphore(t *testing.T) {
	s, _ := newTestScheduler(WithDualTrackCapacity(1, 1))
	job := &types.CognitiveJob{
		JobID:   "job1",
		Kind:    types.JobExploration,
		Context: types.Metadata{"track": trackUserDirected, "user_query": "novel battery chemistries"},
	}

	result := s.dispatchExploration(job)
	require.NotNil(t, result)
	assert.Equal(t, 0, len(s.userSem))
}

func TestIsIdle_TrueOnCompletionPhaseOrTerminalGoal(t *testing.T) {
	assert.True(t, isIdle(statestore.CurrentState{CurrentPhase: statestore.PhaseCompletion, GoalStatus: statestore.GoalInProgress}))
	assert.True(t, isIdle(statestore.CurrentState{CurrentPhase: statestore.PhaseActive, GoalStatus: statestore.GoalAchieved}))
	assert.True(t, isIdle(statestore.CurrentState{CurrentPhase: statestore.PhaseActive, GoalStatus: statestore.GoalFailed}))
	assert.False(t, isIdle(statestore.CurrentState{CurrentPhase: statestore.PhaseActive, GoalStatus: statestore.GoalInProgress}))
}

func TestStats_TakeSynthesisDueFiresEveryFiveCompletions(t *testing.T) {
	st := newStats()
	for i := 0; i < 4; i++ {
		st.appendHistory(jobRecord{JobID: "x"})
		assert.False(t, st.takeSynthesisDue())
	}
	st.appendHistory(jobRecord{JobID: "x"})
	assert.True(t, st.takeSynthesisDue())
	assert.False(t, st.takeSynthesisDue())
}

func TestStats_EvictTimedOutRemovesStaleActiveJobs(t *testing.T) {
	st := newStats()
	st.markActive(&types.CognitiveJob{JobID: "stale"})
	st.active["stale"] = activeJob{job: &types.CognitiveJob{JobID: "stale"}, startedAt: time.Now().Add(-time.Hour)}

	evicted := st.evictTimedOut(time.Minute)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, uint64(1), st.snapshot(0).TimedOutJobs)
}
