package explorer

import (
	"context"
	"time"

	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/knowledge/extraction"
	"unified-thinking/internal/llmiface"
	"unified-thinking/internal/types"
)

// Explorer wires the Knowledge Explorer's configuration, caches, strategy
// scoreboard and external collaborators into the five-stage pipeline
// (Collect -> Evaluate -> Seed -> Trend -> Cross-domain).
type Explorer struct {
	cfg       Config
	caches    *caches
	board     *scoreboard
	analyzer  llmiface.SemanticAnalyzer
	search    llmiface.WebSearchClient
	concepts  *knowledge.ConceptGraph
	vectors   *knowledge.VectorStore
	extractor extraction.Extractor
}

// New constructs an Explorer. analyzer, search, concepts and vectors are
// optional; a nil analyzer falls back to the scoreboard/default strategy
// tiers, a nil search client disables Collect, a nil concept graph skips
// cross-domain graph projection, and a nil vector store falls the novelty
// check in evaluate back to Jaccard token overlap.
func New(cfg Config, analyzer llmiface.SemanticAnalyzer, search llmiface.WebSearchClient, concepts *knowledge.ConceptGraph, vectors *knowledge.VectorStore) *Explorer {
	return &Explorer{
		cfg:       cfg,
		caches:    newCaches(cfg),
		board:     newScoreboard(),
		analyzer:  analyzer,
		search:    search,
		concepts:  concepts,
		vectors:   vectors,
		extractor: extraction.NewHybridExtractor(extraction.HybridConfig{EnableLLM: false}),
	}
}

// Explore runs the full pipeline over targets. explicitStrategy may be
// empty, in which case strategy selection falls through the semantic /
// scoreboard / default tiers described in §4.2.
func (e *Explorer) Explore(ctx context.Context, targets []types.ExplorationTarget, explicitStrategy Strategy) (*types.ExplorationResult, error) {
	start := time.Now()

	semanticConfidence, intent := e.analyzeIntent(ctx, targets)
	strategy := selectStrategy(explicitStrategy, semanticConfidence, intent, e.board)

	findings := e.collect(ctx, targets, strategy, semanticConfidence, intent)
	items, itemTargets := e.evaluate(findings)
	seeds := e.seed(items, itemTargets, strategy)
	foundTrends := e.trends(items)
	insights := e.crossDomainInsights(seeds)

	success := len(findings) == 0 || len(items) > 0
	e.board.record(strategy, success)

	result := &types.ExplorationResult{
		ExplorationID:       "exploration_" + hash8(strategy.queryKey(targets)),
		Strategy:            string(strategy),
		Targets:             targets,
		DiscoveredKnowledge: items,
		GeneratedSeeds:      seeds,
		IdentifiedTrends:    foundTrends,
		CrossDomainInsights: insights,
		ExecutionTime:       time.Since(start),
		SuccessRate:         successRate(targets, itemTargets, seeds),
		QualityScore:        qualityScore(items),
	}

	e.caches.addHistory(*result)
	return result, nil
}

// History returns the cached exploration history (most recent last).
func (e *Explorer) History() []types.ExplorationResult {
	return e.caches.History()
}

func (e *Explorer) analyzeIntent(ctx context.Context, targets []types.ExplorationTarget) (float64, string) {
	if e.analyzer == nil || len(targets) == 0 {
		return 0, ""
	}

	descriptions := make([]string, 0, len(targets))
	for _, t := range targets {
		descriptions = append(descriptions, t.Description)
	}

	results, err := e.analyzer.Analyze(ctx, descriptions)
	if err != nil {
		return 0, ""
	}
	return analyzerConfidence(results)
}

// successRate is the fraction of targets that produced at least one
// knowledge item, or at least one seed whose generation_context's
// related_targets names the target (§4.2 Metrics, Testable Property 3).
func successRate(targets []types.ExplorationTarget, itemTargets map[string]string, seeds []types.ThinkingSeed) float64 {
	if len(targets) == 0 {
		return 0
	}

	produced := make(map[string]bool)
	for _, targetID := range itemTargets {
		produced[targetID] = true
	}
	for _, s := range seeds {
		related, _ := s.GenerationContext["related_targets"].([]string)
		for _, targetID := range related {
			produced[targetID] = true
		}
	}

	var hits int
	for _, t := range targets {
		if produced[t.TargetID] {
			hits++
		}
	}
	return float64(hits) / float64(len(targets))
}

func qualityScore(items []types.KnowledgeItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += item.Overall()
	}
	return sum / float64(len(items))
}

// queryKey derives a stable seed for the exploration ID from the strategy
// and the first target.
func (s Strategy) queryKey(targets []types.ExplorationTarget) string {
	if len(targets) == 0 {
		return string(s)
	}
	return string(s) + "_" + targets[0].TargetID
}
