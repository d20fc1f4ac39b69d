package retrospection

import (
	"fmt"

	"unified-thinking/internal/reinforcement"
	"unified-thinking/internal/types"
)

const ahaMomentBonus = 1.2

// mabStore is the MAB Strategy Store contract (C6) consumed here, satisfied
// by *reinforcement.ThompsonSelector.
type mabStore interface {
	CreateStrategyArmIfMissing(strategyID, pathType string) *reinforcement.Strategy
	UpdatePathPerformance(strategyID string, success bool, reward float64, source string) error
}

// assimilate runs Stage 3: every new dimension and surviving creative path
// becomes a strategy arm seeded with a positive reward, creative paths
// carrying the Aha-Moment bonus. Returns the strategy IDs touched and the
// update records, in the order the updates were applied.
func assimilate(dimensions []types.Dimension, paths []types.ReasoningPath, cfg Config, mab mabStore) ([]string, []types.MABUpdate) {
	var strategyIDs []string
	var updates []types.MABUpdate

	if !cfg.EnableMABInjection || mab == nil {
		return strategyIDs, updates
	}

	for _, dim := range dimensions {
		strategyID := fmt.Sprintf("retro_llm_%s", dim.DimensionID)
		mab.CreateStrategyArmIfMissing(strategyID, "")
		reward := cfg.InitialExplorationReward
		if err := mab.UpdatePathPerformance(strategyID, true, reward, reinforcement.SourceRetrospection); err == nil {
			strategyIDs = append(strategyIDs, strategyID)
			updates = append(updates, types.MABUpdate{StrategyID: strategyID, Success: true, Reward: reward, Source: reinforcement.SourceRetrospection})
		}
	}

	for i, path := range paths {
		strategyID := path.PathID
		if strategyID == "" {
			strategyID = fmt.Sprintf("retro_path_%d", i)
		}
		mab.CreateStrategyArmIfMissing(strategyID, path.PathType)
		reward := cfg.InitialExplorationReward * ahaMomentBonus
		if err := mab.UpdatePathPerformance(strategyID, true, reward, reinforcement.SourceRetrospection); err == nil {
			strategyIDs = append(strategyIDs, strategyID)
			updates = append(updates, types.MABUpdate{StrategyID: strategyID, Success: true, Reward: reward, Source: reinforcement.SourceRetrospection})
		}
	}

	return strategyIDs, updates
}
