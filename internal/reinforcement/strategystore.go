package reinforcement

// This file adapts ThompsonSelector to the MAB Strategy Store contract (C6)
// consumed by the retrospection engine and cognitive scheduler: creating
// arms on demand and recording source-tagged reward updates, on top of the
// existing Thompson Sampling core.

// Source tags recognized on reward updates, per the consumed MAB contract.
const (
	SourceUserFeedback   = "user_feedback"
	SourceRetrospection  = "retrospection"
	SourceToolVerification = "tool_verification"
)

// CreateStrategyArmIfMissing registers strategyID with a uniform prior
// (α=1, β=1) unless it already exists. pathType is carried as the arm's
// Mode for later reporting.
func (ts *ThompsonSelector) CreateStrategyArmIfMissing(strategyID, pathType string) *Strategy {
	ts.mu.Lock()
	if existing, ok := ts.strategies[strategyID]; ok {
		ts.mu.Unlock()
		return existing
	}
	ts.mu.Unlock()

	strategy := &Strategy{
		ID:       strategyID,
		Name:     strategyID,
		Mode:     pathType,
		IsActive: true,
		Alpha:    1.0,
		Beta:     1.0,
	}
	ts.AddStrategy(strategy)
	return strategy
}

// UpdatePathPerformance records a reward for strategyID, creating the arm
// first if it does not yet exist. Source is carried for downstream
// source-specific weighting but does not itself change the Bayesian update
// rule: success drives alpha, failure drives beta, exactly as RecordOutcome.
func (ts *ThompsonSelector) UpdatePathPerformance(strategyID string, success bool, reward float64, source string) error {
	ts.CreateStrategyArmIfMissing(strategyID, "")
	return ts.RecordOutcome(strategyID, success)
}
