package retrospection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"unified-thinking/internal/llmiface"
	"unified-thinking/internal/statestore"
	"unified-thinking/internal/types"
)

// Engine runs the Select -> Ideate -> Assimilate pipeline over a state
// store's conversation history. The path generator and MAB store may be
// absent at construction time: Ideate then emits empty lists and Assimilate
// is skipped, but tool retrospection and analysis still run (§7).
type Engine struct {
	cfg        Config
	dimCreator llmiface.DimensionCreator
	pathGen    llmiface.PathGenerator
	mab        mabStore
}

// New constructs a retrospection Engine. Any collaborator may be nil.
func New(cfg Config, dimCreator llmiface.DimensionCreator, pathGen llmiface.PathGenerator, mab mabStore) *Engine {
	return &Engine{cfg: cfg, dimCreator: dimCreator, pathGen: pathGen, mab: mab}
}

// PerformRetrospection runs one synchronous retrospection pass, selecting a
// strategy override when strategy is non-empty and a specific historical
// turn when targetTaskID is non-empty. Never returns an error: all failure
// modes are represented in the result's Status field, per §4.3's error
// model (no exception propagates to the scheduler loop).
func (e *Engine) PerformRetrospection(store statestore.Store, strategy SelectionStrategy, targetTaskID string) (result *types.RetrospectionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = &types.RetrospectionResult{
				RetroID:      fmt.Sprintf("retro_error_%s", uuid.New().String()),
				Status:       types.RetrospectionError,
				ErrorMessage: fmt.Sprintf("%v", r),
			}
		}
	}()

	if strategy == "" {
		strategy = e.cfg.DefaultStrategy
	}

	history := store.ConversationHistory()
	task := selectTask(history, strategy, e.cfg, time.Now(), targetTaskID)
	if task == nil {
		return &types.RetrospectionResult{
			RetroID: fmt.Sprintf("retro_%s", uuid.New().String()),
			Status:  types.RetrospectionNoSuitableTasks,
		}
	}

	ctx := context.Background()
	dimensions, paths := ideate(ctx, task, e.cfg, e.dimCreator, e.pathGen)
	strategyIDs, updates := assimilate(dimensions, paths, e.cfg, e.mab)
	toolRetro := toolRetrospection(task.OriginalTurn, task.Complexity)

	insights, successPatterns, failureCauses := analyzeOutcome(task.OriginalTurn, toolRetro)
	improvements := improvementSuggestions(dimensions, paths, toolRetro)

	return &types.RetrospectionResult{
		RetroID:                fmt.Sprintf("retro_%s", uuid.New().String()),
		Status:                 types.RetrospectionOK,
		Task:                   task,
		Dimensions:             dimensions,
		CreativePaths:          paths,
		Insights:               insights,
		SuccessPatterns:        successPatterns,
		FailureCauses:          failureCauses,
		ImprovementSuggestions: improvements,
		ToolRetrospection:      toolRetro,
		AssimilatedStrategyIDs: strategyIDs,
		MABUpdates:             updates,
	}
}

// analyzeOutcome extracts small structured lists of turn-level
// characteristics, success patterns and failure causes (§4.3).
func analyzeOutcome(turn types.ConversationTurn, toolRetro *types.ToolRetrospection) (insights, successPatterns, failureCauses []string) {
	if turn.Success {
		successPatterns = append(successPatterns, fmt.Sprintf("turn %s completed successfully in phase %s", turn.TurnID, turn.Phase))
	} else {
		failureCauses = append(failureCauses, fmt.Sprintf("turn %s failed: %s", turn.TurnID, turn.ErrorMessage))
	}

	insights = append(insights, fmt.Sprintf("task complexity %.2f over %d tool call(s)", taskComplexity(turn), len(turn.ToolCalls)))

	if toolRetro != nil {
		for _, tool := range toolRetro.FailureAnalysis.FailedTools {
			failureCauses = append(failureCauses, fmt.Sprintf("tool %s failed at least once", tool))
		}
		insights = append(insights, toolRetro.SelectionInsights...)
	}

	return insights, successPatterns, failureCauses
}

// improvementSuggestions joins the tool post-mortem's optimization
// suggestions with observations about the generated dimensions and paths.
func improvementSuggestions(dimensions []types.Dimension, paths []types.ReasoningPath, toolRetro *types.ToolRetrospection) []string {
	var suggestions []string

	if toolRetro != nil {
		suggestions = append(suggestions, toolRetro.OptimizationSuggestions...)
	}
	if len(dimensions) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("consider %d alternative solution angle(s) surfaced by dimension creation", len(dimensions)))
	}
	if len(paths) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("consider %d creative-bypass path(s) for future similar tasks", len(paths)))
	}

	return suggestions
}
