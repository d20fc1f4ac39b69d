package explorer

import (
	"fmt"

	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/types"
)

// crossDomainInsights is Stage 5: for every seed with non-empty
// CrossDomainConnections, emit one CrossDomainInsight and, when a concept
// graph is wired, add the seed as a node and link it to each connected
// concept so later explorations can traverse the finding.
func (e *Explorer) crossDomainInsights(seeds []types.ThinkingSeed) []types.CrossDomainInsight {
	var out []types.CrossDomainInsight

	for _, s := range seeds {
		if len(s.CrossDomainConnections) == 0 {
			continue
		}

		insight := types.CrossDomainInsight{
			InsightID:  fmt.Sprintf("insight_%s", hash8(s.SeedID)),
			Type:       "cross_domain_connection",
			SeedID:     s.SeedID,
			Content:    s.Content,
			Confidence: s.Confidence,
		}
		out = append(out, insight)

		if e.concepts == nil {
			continue
		}
		seedNode := &knowledge.ConceptNode{ID: s.SeedID, Label: s.Content, Kind: knowledge.EntityTypeSeed}
		_ = e.concepts.AddNode(seedNode)
		for _, conn := range s.CrossDomainConnections {
			connNode := &knowledge.ConceptNode{ID: conn, Label: conn, Kind: knowledge.EntityTypeConcept}
			_ = e.concepts.AddNode(connNode)
			_ = e.concepts.Link(s.SeedID, conn, knowledge.RelationshipCrossDomain)
		}
	}

	return out
}
