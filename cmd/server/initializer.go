package main

import (
	"context"
	"log"
	"os"

	"unified-thinking/internal/config"
	"unified-thinking/internal/embeddings"
	"unified-thinking/internal/explorer"
	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/llmiface"
	"unified-thinking/internal/pathlibrary"
	"unified-thinking/internal/reinforcement"
	"unified-thinking/internal/retrospection"
	"unified-thinking/internal/scheduler"
	"unified-thinking/internal/server"
	"unified-thinking/internal/statestore"
)

// ServerComponents holds all initialized server components.
type ServerComponents struct {
	Config        *config.Config
	Store         *statestore.MemoryStore
	Concepts      *knowledge.ConceptGraph
	Vectors       *knowledge.VectorStore
	Embedder      *embeddings.CachedEmbedder
	Neo4j         *knowledge.Neo4jClient
	MAB           *reinforcement.ThompsonSelector
	Explorer      *explorer.Explorer
	Retrospection *retrospection.Engine
	Paths         *pathlibrary.Library
	Scheduler     *scheduler.Scheduler
	Server        *server.UnifiedServer
}

// InitializeServer creates and wires all server components. This function is
// extracted from main() to enable testing.
func InitializeServer() (*ServerComponents, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	components := &ServerComponents{Config: cfg}

	components.Store = statestore.NewMemoryStore()
	log.Println("Initialized in-memory state store")

	components.Concepts = knowledge.NewConceptGraph()
	log.Println("Initialized concept graph")

	if os.Getenv("NEO4J_URI") != "" {
		if client, err := knowledge.NewNeo4jClient(knowledge.DefaultConfig()); err != nil {
			log.Printf("Neo4j unavailable, falling back to in-memory concept graph only: %v", err)
		} else if err := client.VerifyConnectivity(context.Background()); err != nil {
			log.Printf("Neo4j connectivity check failed, falling back to in-memory concept graph only: %v", err)
			_ = client.Close(context.Background())
		} else {
			components.Neo4j = client
			components.Concepts.WithNeo4j(client, knowledge.DefaultConfig().Database)
			log.Println("Mirroring concept graph writes to Neo4j")
		}
	}

	var baseEmbedder embeddings.Embedder = embeddings.NewMockEmbedder(256)
	if apiKey := os.Getenv("VOYAGE_API_KEY"); apiKey != "" {
		model := os.Getenv("VOYAGE_MODEL")
		if model == "" {
			model = "voyage-3-lite"
		}
		baseEmbedder = embeddings.NewVoyageEmbedder(apiKey, model)
		log.Printf("Using Voyage AI embedder (model %s) for semantic novelty scoring", model)
	}

	cachedEmbedder, err := embeddings.NewCachedEmbedder(baseEmbedder, nil)
	if err != nil {
		return nil, err
	}
	components.Embedder = cachedEmbedder

	vectors, err := knowledge.NewVectorStore(knowledge.VectorStoreConfig{
		Embedder: cachedEmbedder,
	})
	if err != nil {
		return nil, err
	}
	components.Vectors = vectors
	log.Println("Initialized chromem-go vector store for semantic novelty scoring")

	components.MAB = reinforcement.NewThompsonSelector(1)
	log.Println("Initialized Thompson Sampling strategy store")

	components.Explorer = explorer.New(
		cfg.Explorer,
		llmiface.NewMockSemanticAnalyzer(),
		llmiface.NewMockWebSearchClient(),
		components.Concepts,
		components.Vectors,
	)
	log.Println("Initialized knowledge explorer")

	components.Retrospection = retrospection.New(
		cfg.Retrospection,
		llmiface.NewMockDimensionCreator(),
		llmiface.NewMockPathGenerator(),
		components.MAB,
	)
	log.Println("Initialized retrospection engine")

	paths, err := pathlibrary.New(cfg.PathLibrary)
	if err != nil {
		return nil, err
	}
	components.Paths = paths
	log.Printf("Initialized path library (backend: %s)", cfg.PathLibrary.StorageBackend)

	components.Scheduler = scheduler.New(
		components.Store,
		components.Retrospection,
		components.Explorer,
		scheduler.WithWorkerCount(cfg.Server.WorkerCount),
		scheduler.WithIdleDetection(cfg.IdleDetection.MinIdleDuration, cfg.IdleDetection.CheckInterval),
		scheduler.WithCognitiveTaskIntervals(cfg.CognitiveTasks.IdeationInterval, cfg.CognitiveTasks.ExplorationInterval, cfg.CognitiveTasks.TaskTimeout),
		scheduler.WithDualTrackCapacity(cfg.KnowledgeExploration.DualTrack.MaxConcurrentUserTasks, cfg.KnowledgeExploration.DualTrack.MaxConcurrentAutonomous),
	)
	log.Println("Initialized cognitive scheduler")

	components.Server = server.NewUnifiedServer(components.Scheduler, components.Paths)
	log.Println("Created unified server")

	return components, nil
}

// Cleanup releases all server resources.
func (c *ServerComponents) Cleanup() error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Neo4j != nil {
		if err := c.Neo4j.Close(context.Background()); err != nil {
			return err
		}
	}
	if c.Vectors != nil {
		if err := c.Vectors.Close(); err != nil {
			return err
		}
	}
	if c.Embedder != nil {
		if err := c.Embedder.Close(); err != nil {
			return err
		}
	}
	if c.Paths != nil {
		return c.Paths.Close()
	}
	return nil
}
