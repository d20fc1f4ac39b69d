// Package statestore defines the State Store contract (C2) the scheduler
// and retrospection engine consume: current phase/goal status, conversation
// history, and a change-listener channel. The host agent owns the real
// implementation; this package also ships a simple in-memory one for tests
// and the demo cmd/server glue.
package statestore

import (
	"sync"

	"unified-thinking/internal/types"
)

// GoalStatus is the closed set of goal states the idle detector inspects.
type GoalStatus string

const (
	GoalInProgress GoalStatus = "in_progress"
	GoalAchieved   GoalStatus = "achieved"
	GoalFailed     GoalStatus = "failed"
)

// Phase is the closed set of conversation phases the idle detector
// inspects. "completion" is the phase that makes the scheduler consider the
// agent idle; a terminal goal status (achieved or failed) does so as well.
type Phase string

const (
	PhaseActive     Phase = "active"
	PhaseCompletion Phase = "completion"
)

// CurrentState is the snapshot returned by current_state().
type CurrentState struct {
	CurrentPhase Phase
	GoalStatus   GoalStatus
	TotalTurns   int
}

// EventKind enumerates the state-change events delivered to listeners.
type EventKind string

const (
	EventTurnCompleted EventKind = "turn_completed"
	EventGoalProgress  EventKind = "goal_progress"
)

// Event is delivered to listeners registered via AddStateChangeListener.
type Event struct {
	Kind EventKind
}

// Listener is invoked synchronously on each state-change event. The core
// treats the store as a one-way observation channel: it must tolerate lost
// events by re-checking state on each scheduler tick.
type Listener func(Event)

// Store is the state-store contract consumed by the scheduler and
// retrospection engine. Lifecycle of ConversationTurns is owned entirely by
// the implementation; the core never mutates them.
type Store interface {
	CurrentState() CurrentState
	ConversationHistory() []types.ConversationTurn
	AddStateChangeListener(Listener)
}

// MemoryStore is a simple in-memory Store implementation for tests and the
// demo cmd/server glue. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	state     CurrentState
	history   []types.ConversationTurn
	listeners []Listener
}

// NewMemoryStore creates an empty store in the active phase.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: CurrentState{CurrentPhase: PhaseActive, GoalStatus: GoalInProgress},
	}
}

func (s *MemoryStore) CurrentState() CurrentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *MemoryStore) ConversationHistory() []types.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ConversationTurn, len(s.history))
	copy(out, s.history)
	return out
}

func (s *MemoryStore) AddStateChangeListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// RecordTurn appends a completed turn to history, marks the phase
// completion, and notifies listeners. This is the host agent's integration
// point: call it once per finished conversation turn.
func (s *MemoryStore) RecordTurn(turn types.ConversationTurn, goalStatus GoalStatus) {
	s.mu.Lock()
	s.history = append(s.history, turn)
	s.state.TotalTurns = len(s.history)
	s.state.CurrentPhase = PhaseCompletion
	s.state.GoalStatus = goalStatus
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(Event{Kind: EventTurnCompleted})
	}
}

// ResumeActivity marks the conversation active again (e.g. a new user turn
// started), notifying listeners of goal progress.
func (s *MemoryStore) ResumeActivity() {
	s.mu.Lock()
	s.state.CurrentPhase = PhaseActive
	s.state.GoalStatus = GoalInProgress
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(Event{Kind: EventGoalProgress})
	}
}
