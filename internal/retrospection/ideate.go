package retrospection

import (
	"context"
	"fmt"
	"sync"

	"unified-thinking/internal/llmiface"
	"unified-thinking/internal/types"
)

const minCreativePathConfidence = 0.3

// ideate runs Stage 2's two parallel activators: dimension creation and
// creative-bypass path generation. Either collaborator may be nil, in
// which case that activator's output is an empty list, per §7's
// graceful-degradation rule.
func ideate(ctx context.Context, task *types.RetrospectionTask, cfg Config, dimCreator llmiface.DimensionCreator, pathGen llmiface.PathGenerator) ([]types.Dimension, []types.ReasoningPath) {
	var dimensions []types.Dimension
	var paths []types.ReasoningPath
	var wg sync.WaitGroup

	if cfg.EnableLLMDimensions && dimCreator != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt := retrospectivePrompt(task.OriginalTurn)
			created, err := dimCreator.CreateDynamicDimensions(ctx, prompt, cfg.MaxNewDimensions, types.CreativityHigh, types.Metadata{
				"mode": "retrospective_analysis",
			})
			if err == nil {
				dimensions = created
			}
		}()
	}

	if cfg.EnableAhaMoment && pathGen != nil {
		seed := fmt.Sprintf("find breakthrough, non-traditional solutions for: %s", task.OriginalTurn.UserInput)
		generated, err := pathGen.GeneratePaths(ctx, seed, task.OriginalTurn.UserInput, cfg.MaxCreativePaths, llmiface.ModeCreativeBypass)
		if err == nil {
			for _, p := range generated {
				if p.Metadata.EffectivenessScore < minCreativePathConfidence {
					continue
				}
				paths = append(paths, p)
			}
		}
	}

	wg.Wait()
	return dimensions, paths
}

// retrospectivePrompt states the original question and answer and asks for
// 2-3 completely alternative solution angles, per §4.3 Stage 2.
func retrospectivePrompt(turn types.ConversationTurn) string {
	return fmt.Sprintf(
		"Original question: %s\nOriginal answer: %s\nPropose 2-3 completely alternative solution angles to this problem.",
		turn.UserInput, turn.Response,
	)
}
