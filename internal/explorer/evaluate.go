package explorer

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"strings"

	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/types"
)

// knowledgeCollection is the chromem-go collection name findings are
// embedded into for semantic novelty scoring.
const knowledgeCollection = "knowledge_items"

// sourceCredibility maps a raw finding's source_type to a baseline
// confidence score (§4.2).
var sourceCredibility = map[string]float64{
	"academic_paper": 0.9,
	"expert_system":  0.8,
	"database":       0.7,
	"web_search":     0.6,
	"api_call":       0.6,
}

const unknownSourceCredibility = 0.3

// qualityBand bands the overall score into a KnowledgeQuality (§4.2).
func qualityBand(overall float64) types.KnowledgeQuality {
	switch {
	case overall >= 0.8:
		return types.QualityExcellent
	case overall >= 0.6:
		return types.QualityGood
	case overall >= 0.4:
		return types.QualityFair
	case overall >= 0.2:
		return types.QualityPoor
	default:
		return types.QualityUnreliable
	}
}

// minContentLength is Stage 2's admission floor (§4.2): shorter raw items
// are discarded before scoring, not merely scored low.
const minContentLength = 10

// relevanceFromLength bands raw content length into a relevance score
// (§4.2): <50 -> 0.3, <200 -> 0.5, <500 -> 0.7, else 0.8.
func relevanceFromLength(content string) float64 {
	n := len(strings.TrimSpace(content))
	switch {
	case n < 50:
		return 0.3
	case n < 200:
		return 0.5
	case n < 500:
		return 0.7
	default:
		return 0.8
	}
}

// jaccardSimilarity computes token-set Jaccard similarity between two
// strings, used by the novelty check against recently cached items.
func jaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		out[tok] = true
	}
	return out
}

// evaluate is Stage 2: discard raw findings shorter than minContentLength,
// score the rest for confidence, relevance and novelty, filter the
// unreliable and the below-threshold, and produce KnowledgeItems. The
// returned map carries each surviving item's originating target ID, used
// by the success_rate metric and by Stage 3's generation_context.
func (e *Explorer) evaluate(findings []rawFinding) ([]types.KnowledgeItem, map[string]string) {
	var items []types.KnowledgeItem
	itemTargets := make(map[string]string)

	for _, f := range findings {
		if len(strings.TrimSpace(f.Content)) < minContentLength {
			continue
		}

		confidence, ok := sourceCredibility[f.SourceType]
		if !ok {
			confidence = unknownSourceCredibility
		}

		relevance := relevanceFromLength(f.Content)

		novelty := e.novelty(f.Content)

		overall := 0.4*confidence + 0.4*relevance + 0.2*novelty
		quality := qualityBand(overall)

		if quality == types.QualityUnreliable {
			continue
		}
		if confidence < e.cfg.MinConfidenceThreshold {
			continue
		}
		if relevance < e.cfg.MinRelevanceThreshold {
			continue
		}

		item := types.KnowledgeItem{
			KnowledgeID:  fmt.Sprintf("knowledge_%s_%d", hash8(f.Content), f.CollectedAt.Unix()),
			Content:      f.Content,
			Source:       f.URL,
			SourceType:   f.SourceType,
			Quality:      quality,
			Confidence:   confidence,
			Relevance:    relevance,
			Novelty:      novelty,
			Tags:         domainTags(f.Content),
			DiscoveredAt: f.CollectedAt,
		}
		items = append(items, item)
		itemTargets[item.KnowledgeID] = f.TargetID
		e.caches.addKnowledge(item)
		e.indexForNovelty(item)
		e.linkExtractedEntities(item)
	}

	return items, itemTargets
}

// novelty scores how dissimilar content is from previously embedded
// findings: 0.2 when similar to something already seen, else 0.6 (§4.2).
// With a vector store configured it runs a chromem-go cosine similarity
// search over the knowledge collection; otherwise it falls back to Jaccard
// token overlap against the last 10 cached items.
func (e *Explorer) novelty(content string) float64 {
	if e.vectors == nil {
		return jaccardNovelty(content, e.caches.recentKnowledge(10))
	}

	ctx := context.Background()
	results, err := e.vectors.SearchSimilar(ctx, knowledgeCollection, content, 1)
	if err != nil {
		// Collection not created yet on the first finding, or embedder
		// failure: fall back rather than reject the finding outright.
		return jaccardNovelty(content, e.caches.recentKnowledge(10))
	}
	if len(results) == 0 {
		return 0.6
	}
	if results[0].Similarity > 0.8 {
		return 0.2
	}
	return 0.6
}

// indexForNovelty embeds and stores an accepted knowledge item in the
// vector store so later findings can be scored against it.
func (e *Explorer) indexForNovelty(item types.KnowledgeItem) {
	if e.vectors == nil {
		return
	}
	ctx := context.Background()
	if err := e.vectors.AddDocument(ctx, knowledgeCollection, item.KnowledgeID, item.Content, map[string]string{
		"source_type": item.SourceType,
	}); err != nil {
		log.Printf("explorer: failed to index knowledge item %s for novelty scoring: %v", item.KnowledgeID, err)
	}
}

// linkExtractedEntities runs the regex entity extractor over an accepted
// item's content and projects every hit onto the concept graph as a node
// linked back to the item, so the cross-domain stage can traverse entities
// (URLs, identifiers, named concepts) surfaced by raw findings, not just
// the cross-domain connections a seed names explicitly.
func (e *Explorer) linkExtractedEntities(item types.KnowledgeItem) {
	if e.concepts == nil || e.extractor == nil {
		return
	}

	result, err := e.extractor.Extract(item.Content)
	if err != nil || result == nil {
		return
	}

	itemNode := &knowledge.ConceptNode{ID: item.KnowledgeID, Label: item.Content, Kind: knowledge.EntityTypeKnowledgeItem}
	if err := e.concepts.AddNode(itemNode); err != nil {
		return
	}

	for _, entity := range result.Entities {
		if entity.Confidence < 0.5 {
			continue
		}
		entityID := "entity_" + hash8(entity.Type+":"+entity.Text)
		entityNode := &knowledge.ConceptNode{ID: entityID, Label: entity.Text, Kind: knowledge.EntityTypeConcept}
		if err := e.concepts.AddNode(entityNode); err != nil {
			continue
		}
		_ = e.concepts.Link(entityID, item.KnowledgeID, knowledge.RelationshipDiscoveredFrom)
	}
}

// domainTags picks up to two significant words from an item's own content
// to stand in for its domain, the same word-length heuristic trends uses
// (trendWordMinLen), so Stage 3's fusion seed can identify cross-domain
// connections between knowledge items (§4.2 Stage 5).
func domainTags(content string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, word := range strings.Fields(strings.ToLower(content)) {
		word = strings.Trim(word, ".,;:!?\"'()[]{}")
		if len(word) <= trendWordMinLen-1 || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
		if len(words) == 2 {
			break
		}
	}
	return words
}

func jaccardNovelty(content string, recent []types.KnowledgeItem) float64 {
	for _, item := range recent {
		if sim := jaccardSimilarity(content, item.Content); sim > 0.8 {
			return 0.2
		}
	}
	return 0.6
}

// hash8 returns an 8-hex-char fnv32a digest of content, used to build
// stable, collision-resistant knowledge IDs without pulling in a general
// hashing library for a single deterministic-ID concern.
func hash8(content string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	return fmt.Sprintf("%08x", h.Sum32())
}
