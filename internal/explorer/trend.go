package explorer

import (
	"sort"
	"strings"

	"unified-thinking/internal/types"
)

const trendWordMinLen = 4
const trendConfidence = 0.6
const trendTopN = 3

// trends is Stage 4: count word frequency across evaluated content (words
// longer than 3 characters) and surface the top 3 words that appear more
// than once, each carrying the IDs of the items it came from.
func (e *Explorer) trends(items []types.KnowledgeItem) []types.Trend {
	freq := make(map[string]int)
	support := make(map[string][]string)

	for _, item := range items {
		seen := make(map[string]bool)
		for _, word := range strings.Fields(strings.ToLower(item.Content)) {
			word = strings.Trim(word, ".,;:!?\"'()[]{}")
			if len(word) <= trendWordMinLen-1 {
				continue
			}
			if seen[word] {
				continue
			}
			seen[word] = true
			freq[word]++
			support[word] = append(support[word], item.KnowledgeID)
		}
	}

	type wordCount struct {
		word  string
		count int
	}
	var candidates []wordCount
	for word, count := range freq {
		if count > 1 {
			candidates = append(candidates, wordCount{word, count})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].word < candidates[j].word
	})

	n := trendTopN
	if n > len(candidates) {
		n = len(candidates)
	}

	out := make([]types.Trend, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, types.Trend{
			Word:                c.word,
			Confidence:          trendConfidence,
			SupportingKnowledge: support[c.word],
		})
	}
	return out
}
