package pathlibrary

import (
	"fmt"
	"hash/fnv"

	"unified-thinking/internal/types"
)

const learnedPathPromptTemplate = "Given the task: {task}\n\nDraw on this thinking seed: {thinking_seed}\n\nProduce a reasoned response."

// LearnFromExploration creates one ReasoningPath per non-empty thinking seed
// in result, skipping seeds whose derived path_id already exists (so the
// operation is idempotent on repeated calls with the same seeds). Returns
// the IDs of paths actually created.
func (l *Library) LearnFromExploration(result *types.ExplorationResult, source string) ([]string, error) {
	var created []string

	for _, seed := range result.GeneratedSeeds {
		if seed.Content == "" {
			continue
		}

		pathID := "learned_" + hash8(seed.Content)

		l.mu.Lock()
		_, exists := l.cache[pathID]
		l.mu.Unlock()
		if exists {
			continue
		}

		category := categoryForSeed(seed)

		path := &types.ReasoningPath{
			PathID:         pathID,
			PathType:       string(category),
			Description:    "Learned from exploration seed " + seed.SeedID,
			PromptTemplate: learnedPathPromptTemplate,
			StrategyID:     "learned_" + pathID,
			Metadata: types.PathMetadata{
				Category:           category,
				Status:             types.PathStatusExperimental,
				EffectivenessScore: 0.5,
				IsLearned:          true,
				LearningSource:     source,
			},
		}

		if err := l.Add(path); err != nil {
			continue // duplicate id raced in between check and Add; skip silently
		}
		created = append(created, pathID)
	}

	return created, nil
}

// categoryForSeed applies §4.1's path_type/category rule: high creativity ->
// creative; has cross-domain connections -> adaptive; otherwise analytical.
func categoryForSeed(seed types.ThinkingSeed) types.PathCategory {
	if seed.CreativityLevel == types.CreativityHigh {
		return types.PathCreative
	}
	if len(seed.CrossDomainConnections) > 0 {
		return types.PathAdaptive
	}
	return types.PathAnalytical
}

// hash8 returns an 8 hex-character content hash, used to derive
// deterministic path/knowledge IDs from content so repeated exploration of
// the same material yields the same ID.
func hash8(content string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	return fmt.Sprintf("%08x", h.Sum32())
}
