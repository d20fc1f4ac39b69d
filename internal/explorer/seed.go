package explorer

import (
	"fmt"
	"sort"
	"strings"

	"unified-thinking/internal/types"
)

// seedTags maps a strategy to the content prefix stamped onto the seeds it
// generates (§4.2 Stage 3), grounded on the original explorer's
// per-strategy seed_content templates.
var seedTags = map[Strategy]string{
	StrategyTrendMonitoring:     "基于趋势监控发现：",
	StrategyCrossDomainLearning: "跨域学习洞察：",
	StrategyGapAnalysis:         "缺口分析发现：",
	StrategyExpertKnowledge:     "专家知识洞察：",
}

const defaultSeedTag = "探索发现："

func seedTag(strategy Strategy) string {
	if tag, ok := seedTags[strategy]; ok {
		return tag
	}
	return defaultSeedTag
}

// fusionSuffix is appended to every fusion seed's content (§4.2 Stage 3).
const fusionSuffix = "综合创新思路"

// creativityFor implements §4.2 Stage 3's binary creativity rule:
// cross_domain_learning and expert_knowledge skew high, everything else
// stays medium.
func creativityFor(strategy Strategy) types.CreativityLevel {
	switch strategy {
	case StrategyCrossDomainLearning, StrategyExpertKnowledge:
		return types.CreativityHigh
	default:
		return types.CreativityMedium
	}
}

const seedContentMaxLen = 500
const fusionPrefixLen = 50

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func itemScore(k types.KnowledgeItem) float64 {
	return (k.Confidence + k.Relevance + k.Novelty) / 3
}

// relatedTargets collects the distinct target IDs behind a set of
// knowledge IDs, used to populate generation_context.related_targets so
// the success_rate metric (§4.2) can attribute a seed back to its targets.
func relatedTargets(knowledgeIDs []string, itemTargets map[string]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range knowledgeIDs {
		target, ok := itemTargets[id]
		if !ok || target == "" || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}

// seed is Stage 3: rank evaluated knowledge by its mean confidence,
// relevance and novelty, take the top MaxSeedsPerExploration, and produce
// one strategy-tagged seed per surviving item plus a fusion seed over the
// top three when at least two items survive, truncated back to
// MaxSeedsPerExploration total (§4.2).
func (e *Explorer) seed(items []types.KnowledgeItem, itemTargets map[string]string, strategy Strategy) []types.ThinkingSeed {
	sorted := make([]types.KnowledgeItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return itemScore(sorted[i]) > itemScore(sorted[j]) })

	max := e.cfg.MaxSeedsPerExploration
	if max > len(sorted) {
		max = len(sorted)
	}
	top := sorted[:max]

	creativity := creativityFor(strategy)
	tag := seedTag(strategy)

	seeds := make([]types.ThinkingSeed, 0, max+1)
	for _, item := range top {
		sourceKnowledge := []string{item.KnowledgeID}
		seeds = append(seeds, types.ThinkingSeed{
			SeedID:          fmt.Sprintf("seed_%s", hash8(item.Content+string(strategy))),
			Content:         truncate(tag+item.Content, seedContentMaxLen),
			SourceKnowledge: sourceKnowledge,
			CreativityLevel: creativity,
			Confidence:      item.Confidence,
			GenerationContext: types.Metadata{
				"strategy":        string(strategy),
				"related_targets": relatedTargets(sourceKnowledge, itemTargets),
			},
		})
	}

	if len(top) >= 2 {
		fusionSources := top
		if len(fusionSources) > 3 {
			fusionSources = fusionSources[:3]
		}

		var prefixes []string
		var sources []string
		for _, item := range fusionSources {
			prefixes = append(prefixes, truncate(item.Content, fusionPrefixLen))
			sources = append(sources, item.KnowledgeID)
		}
		fused := truncate(strings.Join(prefixes, "、")+" 的"+fusionSuffix, seedContentMaxLen)
		seeds = append(seeds, types.ThinkingSeed{
			SeedID:                 fmt.Sprintf("seed_fusion_%s", hash8(fused)),
			Content:                fused,
			SourceKnowledge:        sources,
			CreativityLevel:        types.CreativityHigh,
			Confidence:             averageConfidence(fusionSources),
			CrossDomainConnections: crossDomainConnections(fusionSources),
			GenerationContext: types.Metadata{
				"strategy":        string(strategy),
				"fusion":          true,
				"related_targets": relatedTargets(sources, itemTargets),
			},
		})
	}

	if len(seeds) > e.cfg.MaxSeedsPerExploration {
		seeds = seeds[:e.cfg.MaxSeedsPerExploration]
	}

	e.caches.addSeeds(seeds...)
	return seeds
}

// crossDomainConnections identifies pairwise combinations across the
// fusion seed's source items' tags (first two tags per item stand in for
// the item's domain), capped at three connections, grounded on the
// original explorer's _identify_cross_domain_connections.
func crossDomainConnections(items []types.KnowledgeItem) []string {
	domainSet := make(map[string]bool)
	for _, item := range items {
		tags := item.Tags
		if len(tags) > 2 {
			tags = tags[:2]
		}
		for _, tag := range tags {
			domainSet[tag] = true
		}
	}

	var domains []string
	for d := range domainSet {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	var connections []string
	for i := 0; i < len(domains); i++ {
		for j := i + 1; j < len(domains); j++ {
			connections = append(connections, domains[i]+"与"+domains[j]+"的融合创新")
			if len(connections) == 3 {
				return connections
			}
		}
	}
	return connections
}

func averageConfidence(items []types.KnowledgeItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += item.Confidence
	}
	return sum / float64(len(items))
}
