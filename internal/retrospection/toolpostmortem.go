package retrospection

import (
	"fmt"
	"strings"

	"unified-thinking/internal/types"
)

// errorCategory buckets a tool error message by substring match, per §4.3's
// failure-analysis rules.
func errorCategory(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "timeout"):
		return "timeout"
	case strings.Contains(lower, "permission"):
		return "permission"
	case strings.Contains(lower, "parameter"):
		return "parameter"
	case strings.Contains(lower, "network"):
		return "network"
	default:
		return "other"
	}
}

func usagePatterns(turn types.ConversationTurn) types.ToolUsagePatterns {
	var sequence []string
	frequency := make(map[string]int)
	parameterKeys := make(map[string][]string)
	argumentCounts := make(map[string][]int)

	for _, call := range turn.ToolCalls {
		sequence = append(sequence, call.ToolName)
		frequency[call.ToolName]++

		var keys []string
		for k := range call.Parameters {
			keys = append(keys, k)
		}
		parameterKeys[call.ToolName] = append(parameterKeys[call.ToolName], keys...)
		argumentCounts[call.ToolName] = append(argumentCounts[call.ToolName], len(call.Parameters))
	}

	adjacentPairs := make(map[string]int)
	for i := 0; i+1 < len(sequence); i++ {
		pair := sequence[i] + "->" + sequence[i+1]
		adjacentPairs[pair]++
	}

	unique := len(frequency)
	mostUsed := ""
	mostUsedCount := 0
	for tool, count := range frequency {
		if count > mostUsedCount {
			mostUsedCount = count
			mostUsed = tool
		}
	}

	diversity := 0.0
	if len(sequence) > 0 {
		diversity = float64(unique) / float64(len(sequence))
	}

	return types.ToolUsagePatterns{
		CallSequence:   sequence,
		SequenceLength: len(sequence),
		UniqueTools:    unique,
		Diversity:      diversity,
		ToolFrequency:  frequency,
		MostUsedTool:   mostUsed,
		AdjacentPairs:  adjacentPairs,
		ParameterKeys:  parameterKeys,
		ArgumentCounts: argumentCounts,
	}
}

func successFactors(turn types.ConversationTurn) types.ToolSuccessFactors {
	perToolTrials := make(map[string]int)
	perToolSuccesses := make(map[string]int)
	successfulParamKeys := make(map[string]bool)

	totalSuccesses := 0
	for _, call := range turn.ToolCalls {
		perToolTrials[call.ToolName]++
		if call.Success {
			totalSuccesses++
			perToolSuccesses[call.ToolName]++
			for k := range call.Parameters {
				successfulParamKeys[k] = true
			}
		}
	}

	perToolRate := make(map[string]float64)
	for tool, trials := range perToolTrials {
		perToolRate[tool] = float64(perToolSuccesses[tool]) / float64(trials)
	}

	var commonKeys []string
	for k := range successfulParamKeys {
		commonKeys = append(commonKeys, k)
	}

	overall := 0.0
	if len(turn.ToolCalls) > 0 {
		overall = float64(totalSuccesses) / float64(len(turn.ToolCalls))
	}

	return types.ToolSuccessFactors{
		OverallSuccessRate:  overall,
		PerToolSuccessRate:  perToolRate,
		CommonParameterKeys: commonKeys,
	}
}

func failureAnalysis(turn types.ConversationTurn) types.ToolFailureAnalysis {
	perToolTrials := make(map[string]int)
	perToolFailures := make(map[string]int)
	failedSet := make(map[string]bool)
	errorCategories := make(map[string]int)

	consecutive := 0
	maxConsecutive := 0
	for i, call := range turn.ToolCalls {
		perToolTrials[call.ToolName]++
		if !call.Success {
			perToolFailures[call.ToolName]++
			failedSet[call.ToolName] = true
			consecutive++
			if consecutive > maxConsecutive {
				maxConsecutive = consecutive
			}
		} else {
			consecutive = 0
		}

		if i < len(turn.ToolResults) {
			if msg := turn.ToolResults[i].Error; msg != "" {
				errorCategories[errorCategory(msg)]++
			}
		}
	}

	var failedTools []string
	for tool := range failedSet {
		failedTools = append(failedTools, tool)
	}

	perToolRate := make(map[string]float64)
	for tool, trials := range perToolTrials {
		perToolRate[tool] = float64(perToolFailures[tool]) / float64(trials)
	}

	firstFailed := len(turn.ToolCalls) > 0 && !turn.ToolCalls[0].Success
	lastFailed := len(turn.ToolCalls) > 0 && !turn.ToolCalls[len(turn.ToolCalls)-1].Success

	return types.ToolFailureAnalysis{
		FailedTools:         failedTools,
		PerToolFailureRate:  perToolRate,
		ErrorCategories:     errorCategories,
		ConsecutiveFailures: maxConsecutive,
		FirstCallFailed:     firstFailed,
		LastCallFailed:      lastFailed,
	}
}

// selectionInsights applies §4.3's heuristic rules over the turn's
// complexity and tool-usage shape.
func selectionInsights(complexity float64, patterns types.ToolUsagePatterns) []string {
	var insights []string

	if complexity > 0.6 && patterns.SequenceLength < 2 {
		insights = append(insights, "under-use: high-complexity task used fewer than 2 tools")
	}
	if complexity < 0.3 && patterns.SequenceLength > 5 {
		insights = append(insights, "over-use: low-complexity task used more than 5 tools")
	}
	if patterns.Diversity < 0.3 && patterns.SequenceLength > 0 {
		insights = append(insights, "over-reliance: tool diversity below 0.3")
	}
	if patterns.Diversity > 0.8 {
		insights = append(insights, "well-explored: tool diversity above 0.8")
	}
	if dominant := patterns.ToolFrequency[patterns.MostUsedTool]; patterns.MostUsedTool != "" && dominant*2 > patterns.SequenceLength {
		insights = append(insights, fmt.Sprintf("frequency-dominance: %s used %d/%d calls", patterns.MostUsedTool, dominant, patterns.SequenceLength))
	}
	if readBeforeWrite(patterns.CallSequence) {
		insights = append(insights, "read-before-write ordering observed")
	}

	return insights
}

func readBeforeWrite(sequence []string) bool {
	readIdx, writeIdx := -1, -1
	for i, tool := range sequence {
		lower := strings.ToLower(tool)
		if readIdx == -1 && strings.Contains(lower, "read") {
			readIdx = i
		}
		if strings.Contains(lower, "write") {
			writeIdx = i
			break
		}
	}
	return readIdx != -1 && writeIdx != -1 && readIdx < writeIdx
}

func optimizationSuggestions(insights []string, failure types.ToolFailureAnalysis, patterns types.ToolUsagePatterns) []string {
	var suggestions []string

	for _, insight := range insights {
		switch {
		case strings.HasPrefix(insight, "under-use"):
			suggestions = append(suggestions, "consider using additional tools to decompose complex tasks")
		case strings.HasPrefix(insight, "over-use"):
			suggestions = append(suggestions, "consider a more direct approach for simple tasks")
		case strings.HasPrefix(insight, "over-reliance"):
			suggestions = append(suggestions, "diversify tool selection to cover more of the task surface")
		case strings.HasPrefix(insight, "frequency-dominance"):
			suggestions = append(suggestions, fmt.Sprintf("consider reducing reliance on %s", patterns.MostUsedTool))
		}
	}

	if failure.ConsecutiveFailures >= 2 {
		suggestions = append(suggestions, "investigate repeated consecutive tool failures before retrying the same approach")
	}
	if failure.FirstCallFailed {
		suggestions = append(suggestions, "validate preconditions before the first tool call")
	}
	if failure.LastCallFailed {
		suggestions = append(suggestions, "add a verification step after the final tool call")
	}

	return suggestions
}

// toolRetrospection runs the always-on tool post-mortem when the turn has
// at least one tool call, per §4.3.
func toolRetrospection(turn types.ConversationTurn, complexity float64) *types.ToolRetrospection {
	if len(turn.ToolCalls) == 0 {
		return nil
	}

	patterns := usagePatterns(turn)
	success := successFactors(turn)
	failure := failureAnalysis(turn)
	insights := selectionInsights(complexity, patterns)
	suggestions := optimizationSuggestions(insights, failure, patterns)

	return &types.ToolRetrospection{
		UsagePatterns:           patterns,
		SuccessFactors:          success,
		FailureAnalysis:         failure,
		SelectionInsights:       insights,
		OptimizationSuggestions: suggestions,
	}
}
