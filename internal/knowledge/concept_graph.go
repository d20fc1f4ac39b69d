package knowledge

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ConceptNode is a vertex in the in-memory concept graph: a knowledge item,
// trend, or thinking seed projected as a node so the cross-domain stage can
// traverse prior findings.
type ConceptNode struct {
	ID    string
	Label string
	Kind  EntityType
}

func conceptNodeHash(n *ConceptNode) string { return n.ID }

// ConceptGraph is the in-memory fallback used when no Neo4j backend is
// configured — a directed graph of ConceptNodes linked by RelationshipType
// edges, built the same way the teacher's graph-of-thoughts controller uses
// dominikbraun/graph: graph.New(hash, graph.Directed()).
type ConceptGraph struct {
	mu    sync.RWMutex
	g     graph.Graph[string, *ConceptNode]
	nodes map[string]*ConceptNode
	edges map[string]RelationshipType // "from->to" -> type

	neo4j   *Neo4jClient
	neo4jDB string
}

// NewConceptGraph creates an empty directed concept graph.
func NewConceptGraph() *ConceptGraph {
	return &ConceptGraph{
		g:     graph.New(conceptNodeHash, graph.Directed()),
		nodes: make(map[string]*ConceptNode),
		edges: make(map[string]RelationshipType),
	}
}

// WithNeo4j attaches an optional persistent graph backend: every AddNode
// and Link call is mirrored to Neo4j as a MERGE after the in-memory graph
// accepts it, so Neo4j unavailability never blocks exploration itself. The
// in-memory graph stays authoritative for Neighbors/Size.
func (c *ConceptGraph) WithNeo4j(client *Neo4jClient, database string) *ConceptGraph {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.neo4j = client
	c.neo4jDB = database
	return c
}

func (c *ConceptGraph) syncNode(n *ConceptNode) {
	if c.neo4j == nil {
		return
	}
	ctx := context.Background()
	_, err := c.neo4j.ExecuteWrite(ctx, c.neo4jDB, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		return tx.Run(ctx,
			"MERGE (n:ConceptNode {id: $id}) SET n.label = $label, n.kind = $kind",
			map[string]interface{}{"id": n.ID, "label": n.Label, "kind": string(n.Kind)},
		)
	})
	if err != nil {
		log.Printf("concept graph: neo4j sync of node %s failed: %v", n.ID, err)
	}
}

func (c *ConceptGraph) syncEdge(fromID, toID string, relType RelationshipType) {
	if c.neo4j == nil {
		return
	}
	ctx := context.Background()
	_, err := c.neo4j.ExecuteWrite(ctx, c.neo4jDB, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		return tx.Run(ctx,
			"MATCH (a:ConceptNode {id: $from}), (b:ConceptNode {id: $to}) MERGE (a)-[r:RELATES {type: $relType}]->(b)",
			map[string]interface{}{"from": fromID, "to": toID, "relType": string(relType)},
		)
	})
	if err != nil {
		log.Printf("concept graph: neo4j sync of edge %s->%s failed: %v", fromID, toID, err)
	}
}

// AddNode inserts a node if it does not already exist; a re-add of the same
// ID is a no-op.
func (c *ConceptGraph) AddNode(n *ConceptNode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.nodes[n.ID]; exists {
		return nil
	}
	if err := c.g.AddVertex(n); err != nil {
		return fmt.Errorf("concept graph: adding node %s: %w", n.ID, err)
	}
	c.nodes[n.ID] = n
	c.syncNode(n)
	return nil
}

// Link adds a directed edge fromID -> toID of the given relationship type.
// Both endpoints must already exist.
func (c *ConceptGraph) Link(fromID, toID string, relType RelationshipType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.nodes[fromID]; !ok {
		return fmt.Errorf("concept graph: unknown node %s", fromID)
	}
	if _, ok := c.nodes[toID]; !ok {
		return fmt.Errorf("concept graph: unknown node %s", toID)
	}

	if err := c.g.AddEdge(fromID, toID); err != nil {
		if err == graph.ErrEdgeAlreadyExists {
			return nil
		}
		return fmt.Errorf("concept graph: linking %s->%s: %w", fromID, toID, err)
	}
	c.edges[fromID+"->"+toID] = relType
	c.syncEdge(fromID, toID, relType)
	return nil
}

// Neighbors returns the nodes directly reachable from id via an outgoing
// edge, used by the cross-domain stage to surface connected prior findings.
func (c *ConceptGraph) Neighbors(id string) ([]*ConceptNode, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	adj, err := c.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("concept graph: building adjacency map: %w", err)
	}

	edgesFrom, ok := adj[id]
	if !ok {
		return nil, nil
	}

	out := make([]*ConceptNode, 0, len(edgesFrom))
	for targetID := range edgesFrom {
		if n, ok := c.nodes[targetID]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Size returns the number of nodes currently held.
func (c *ConceptGraph) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}
