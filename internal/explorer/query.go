package explorer

import (
	"fmt"

	"unified-thinking/internal/types"
)

// subTargetKind groups user-directed queries as named in §4.2.
type subTargetKind string

const (
	subTargetPrimaryFocus        subTargetKind = "primary_focus"
	subTargetContextualExpansion subTargetKind = "contextual_expansion"
	subTargetVerificationFocused subTargetKind = "verification_focused"
)

// strategyTemplates gives each strategy its query-template family. Every
// strategy has at least one template; unlisted strategies fall back to a
// generic pair.
var strategyTemplates = map[Strategy][]string{
	StrategyExpertKnowledge:         {"expert deep analysis", "authoritative guide"},
	StrategyTrendMonitoring:         {"2024 latest trend", "emerging developments"},
	StrategyGapAnalysis:             {"solution", "best practice"},
	StrategyCrossDomainLearning:     {"cross-domain analogy", "adjacent field approach"},
	StrategySerendipityDiscovery:    {"unexpected connection", "surprising finding"},
	StrategyDomainExpansion:         {"comprehensive overview", "foundational concepts"},
	StrategyCompetitiveIntelligence: {"competitor analysis", "market comparison"},
}

var intentTemplates = map[string][]string{
	"solution_seeking": {"solution", "best practice"},
	"trend_seeking":    {"2024 latest trend", "emerging developments"},
}

func templatesFor(strategy Strategy, semanticConfidence float64, intent string) []string {
	if semanticConfidence >= 0.7 {
		if tmpls, ok := intentTemplates[intent]; ok {
			return tmpls
		}
	}
	if tmpls, ok := strategyTemplates[strategy]; ok {
		return tmpls
	}
	return []string{"overview", "guide"}
}

// BuildUserDirectedQueries constructs up to 8 queries grouped by sub-target
// kind for a user-directed exploration.
func BuildUserDirectedQueries(target types.ExplorationTarget, strategy Strategy, semanticConfidence float64, intent string) []string {
	templates := templatesFor(strategy, semanticConfidence, intent)
	kinds := []subTargetKind{subTargetPrimaryFocus, subTargetContextualExpansion, subTargetVerificationFocused}

	var queries []string
	for _, kind := range kinds {
		for _, tmpl := range templates {
			if len(queries) >= 8 {
				return queries
			}
			queries = append(queries, fmt.Sprintf("%s %s (%s)", target.Description, tmpl, kind))
		}
	}
	return queries
}

// BuildAutonomousQueries constructs up to 4 broader, discovery-favouring
// queries for an autonomous exploration.
func BuildAutonomousQueries(target types.ExplorationTarget, strategy Strategy) []string {
	templates := templatesFor(strategy, 0, "")

	var queries []string
	for _, tmpl := range templates {
		if len(queries) >= 4 {
			break
		}
		queries = append(queries, fmt.Sprintf("%s %s", target.Description, tmpl))
	}
	for _, generic := range []string{"gap analysis", "serendipitous discovery"} {
		if len(queries) >= 4 {
			break
		}
		queries = append(queries, fmt.Sprintf("%s %s", target.Description, generic))
	}
	return queries
}

// BuildQueries dispatches to the user-directed or autonomous track based on
// the target's exploration mode.
func BuildQueries(target types.ExplorationTarget, strategy Strategy, semanticConfidence float64, intent string) []string {
	if target.ExplorationModeOf() == types.ExplorationUserDirected {
		return BuildUserDirectedQueries(target, strategy, semanticConfidence, intent)
	}
	return BuildAutonomousQueries(target, strategy)
}
