package retrospection

import (
	"math/rand"
	"time"

	"unified-thinking/internal/types"
)

// SelectionStrategy is the closed set of Stage 1 task-selection strategies.
type SelectionStrategy string

const (
	StrategyRandomSampling  SelectionStrategy = "random_sampling"
	StrategyFailureFocused  SelectionStrategy = "failure_focused"
	StrategyComplexityBased SelectionStrategy = "complexity_based"
	StrategyRecentTasks     SelectionStrategy = "recent_tasks"
	StrategyToolFailure     SelectionStrategy = "tool_failure"
	StrategyLowSatisfaction SelectionStrategy = "low_satisfaction"
)

const minCandidateAge = 60 * time.Second
const minInputLength = 10

// taskComplexity scores a turn on [0,1] per §4.3's weighted formula.
func taskComplexity(turn types.ConversationTurn) float64 {
	inputContribution := float64(len(turn.UserInput)) / 500 * 0.3
	toolContribution := minF(float64(len(turn.ToolCalls))*0.2, 0.4)
	mabContribution := minF(float64(len(turn.MABDecisions))*0.1, 0.2)
	timeContribution := minF(turn.ExecutionTime.Seconds()/60, 0.1)

	score := inputContribution + toolContribution + mabContribution + timeContribution
	return minF(score, 1)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// eligibleCandidates filters conversation history to turns old enough and
// substantial enough to retrospect on (§4.3 Stage 1).
func eligibleCandidates(history []types.ConversationTurn, now time.Time, maxAgeHours float64) []types.ConversationTurn {
	maxAge := time.Duration(maxAgeHours * float64(time.Hour))

	var out []types.ConversationTurn
	for _, turn := range history {
		age := now.Sub(turn.Timestamp)
		if age < minCandidateAge || age > maxAge {
			continue
		}
		if len(turn.UserInput) < minInputLength {
			continue
		}
		out = append(out, turn)
	}
	return out
}

func hasFailedToolCall(turn types.ConversationTurn) bool {
	for _, call := range turn.ToolCalls {
		if !call.Success {
			return true
		}
	}
	return false
}

// selectTask implements Stage 1: pick one eligible turn according to
// strategy, falling back to random_sampling where the spec names a
// fallback. Returns nil if no candidates are eligible at all.
func selectTask(history []types.ConversationTurn, strategy SelectionStrategy, cfg Config, now time.Time, targetTaskID string) *types.RetrospectionTask {
	candidates := eligibleCandidates(history, now, cfg.MaxTaskAgeHours)
	if len(candidates) == 0 {
		return nil
	}

	if targetTaskID != "" {
		for _, turn := range candidates {
			if turn.TurnID == targetTaskID {
				return buildTask(turn, strategy)
			}
		}
		return nil
	}

	switch strategy {
	case StrategyFailureFocused, StrategyLowSatisfaction:
		return selectFirstMatching(candidates, func(t types.ConversationTurn) bool { return !t.Success }, strategy, cfg)
	case StrategyComplexityBased:
		return selectComplexityArgmax(candidates, strategy)
	case StrategyRecentTasks:
		return selectLatest(candidates, strategy)
	case StrategyToolFailure:
		return selectFirstMatching(candidates, hasFailedToolCall, strategy, cfg)
	default:
		return selectRandom(candidates, strategy)
	}
}

func selectRandom(candidates []types.ConversationTurn, strategy SelectionStrategy) *types.RetrospectionTask {
	turn := candidates[rand.Intn(len(candidates))]
	return buildTask(turn, strategy)
}

func selectFirstMatching(candidates []types.ConversationTurn, match func(types.ConversationTurn) bool, strategy SelectionStrategy, cfg Config) *types.RetrospectionTask {
	var matching []types.ConversationTurn
	for _, turn := range candidates {
		if match(turn) {
			matching = append(matching, turn)
		}
	}
	if len(matching) == 0 {
		return selectRandom(candidates, strategy)
	}
	turn := matching[rand.Intn(len(matching))]
	return buildTask(turn, strategy)
}

func selectComplexityArgmax(candidates []types.ConversationTurn, strategy SelectionStrategy) *types.RetrospectionTask {
	best := candidates[0]
	bestScore := taskComplexity(best)
	for _, turn := range candidates[1:] {
		if score := taskComplexity(turn); score > bestScore {
			bestScore = score
			best = turn
		}
	}
	return buildTask(best, strategy)
}

func selectLatest(candidates []types.ConversationTurn, strategy SelectionStrategy) *types.RetrospectionTask {
	latest := candidates[0]
	for _, turn := range candidates[1:] {
		if turn.Timestamp.After(latest.Timestamp) {
			latest = turn
		}
	}
	return buildTask(latest, strategy)
}

func buildTask(turn types.ConversationTurn, strategy SelectionStrategy) *types.RetrospectionTask {
	return &types.RetrospectionTask{
		TaskID:       turn.TurnID,
		OriginalTurn: turn,
		Strategy:     string(strategy),
		Complexity:   taskComplexity(turn),
	}
}
