package pathlibrary

import "unified-thinking/internal/types"

// recommendationScore implements the §4.1 formula:
//
//	base = 0.40*effectiveness_score + 0.30*success_rate
//	     + 0.15*min(1, usage_count/100) + 0.15*average_rating
//	if ctx != nil: base *= (1 + contextMatch(p, ctx))
func recommendationScore(p *types.ReasoningPath, ctx *types.TaskContext) float64 {
	m := &p.Metadata

	usageFactor := float64(m.UsageCount) / 100.0
	if usageFactor > 1 {
		usageFactor = 1
	}

	base := 0.40*m.EffectivenessScore + 0.30*m.SuccessRate + 0.15*usageFactor + 0.15*m.AverageRating

	if ctx != nil {
		base *= 1 + contextMatch(p, ctx)
	}

	return base
}

// contextMatch sums the context-fit bonuses named in §4.1: +0.2 if
// ctx.task_type is among the path's keywords, +0.1 if ctx.complexity matches
// the path's complexity_level, plus |ctx.tags ∩ p.tags| / |ctx.tags| * 0.3.
func contextMatch(p *types.ReasoningPath, ctx *types.TaskContext) float64 {
	var score float64

	if ctx.TaskType != "" && containsString(p.Metadata.Keywords, ctx.TaskType) {
		score += 0.2
	}
	if ctx.Complexity != "" && ctx.Complexity == p.Metadata.ComplexityLevel {
		score += 0.1
	}
	if len(ctx.Tags) > 0 {
		overlap := intersectionCount(ctx.Tags, p.Metadata.Tags)
		score += (float64(overlap) / float64(len(ctx.Tags))) * 0.3
	}

	return score
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func intersectionCount(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	count := 0
	for _, s := range a {
		if _, ok := set[s]; ok {
			count++
		}
	}
	return count
}
