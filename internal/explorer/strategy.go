package explorer

import "unified-thinking/internal/llmiface"

// Strategy is the closed set of exploration strategies named in §4.2.
type Strategy string

const (
	StrategyDomainExpansion         Strategy = "domain_expansion"
	StrategyTrendMonitoring         Strategy = "trend_monitoring"
	StrategyGapAnalysis             Strategy = "gap_analysis"
	StrategyCrossDomainLearning     Strategy = "cross_domain_learning"
	StrategySerendipityDiscovery    Strategy = "serendipity_discovery"
	StrategyExpertKnowledge         Strategy = "expert_knowledge"
	StrategyCompetitiveIntelligence Strategy = "competitive_intelligence"

	defaultStrategy Strategy = StrategyDomainExpansion
)

// scoreboard tracks historical strategy performance for the fallback
// selection path (c): a plain running mean of success, mutated only by the
// completing worker per §5's shared-resources rule.
type scoreboard struct {
	successes map[Strategy]int
	trials    map[Strategy]int
}

func newScoreboard() *scoreboard {
	return &scoreboard{successes: make(map[Strategy]int), trials: make(map[Strategy]int)}
}

func (s *scoreboard) record(strategy Strategy, success bool) {
	s.trials[strategy]++
	if success {
		s.successes[strategy]++
	}
}

func (s *scoreboard) best() Strategy {
	best := defaultStrategy
	bestRate := -1.0
	for strategy, trials := range s.trials {
		if trials == 0 {
			continue
		}
		rate := float64(s.successes[strategy]) / float64(trials)
		if rate > bestRate {
			bestRate = rate
			best = strategy
		}
	}
	return best
}

// selectStrategy implements §4.2's four-tier selection: (a) explicit
// override, (b) semantic-intent analysis when confident, (c) historical
// scoreboard, (d) default.
func selectStrategy(explicit Strategy, semanticConfidence float64, semanticIntent string, board *scoreboard) Strategy {
	if explicit != "" {
		return explicit
	}

	if semanticConfidence >= 0.7 {
		if strategy, ok := strategyForIntent(semanticIntent); ok {
			return strategy
		}
	}

	if board != nil {
		if best := board.best(); best != "" {
			return best
		}
	}

	return defaultStrategy
}

func strategyForIntent(intent string) (Strategy, bool) {
	switch intent {
	case "solution_seeking":
		return StrategyGapAnalysis, true
	case "trend_seeking":
		return StrategyTrendMonitoring, true
	case "expert_seeking":
		return StrategyExpertKnowledge, true
	case "cross_domain_seeking":
		return StrategyCrossDomainLearning, true
	default:
		return "", false
	}
}

// analyzerConfidence extracts the confidence of the first semantic analysis
// result, or 0 (treated as "analyzer absent or low-confidence") when empty.
func analyzerConfidence(results []llmiface.SemanticAnalysisResult) (confidence float64, intent string) {
	if len(results) == 0 {
		return 0, ""
	}
	return results[0].Confidence, results[0].Intent
}
