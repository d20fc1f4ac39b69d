package explorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/embeddings"
	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/knowledge/extraction"
	"unified-thinking/internal/llmiface"
	"unified-thinking/internal/types"
)

func userDirectedTarget(id string) types.ExplorationTarget {
	return types.ExplorationTarget{
		TargetID:    id,
		Type:        "topic",
		Description: "distributed consensus protocols",
		Metadata:    types.Metadata{"exploration_mode": "user_directed"},
	}
}

func autonomousTarget(id string) types.ExplorationTarget {
	return types.ExplorationTarget{
		TargetID:    id,
		Type:        "topic",
		Description: "serverless cold start mitigation",
		Metadata:    types.Metadata{"exploration_mode": "autonomous"},
	}
}

func TestSelectStrategy_ExplicitOverrideWins(t *testing.T) {
	got := selectStrategy(StrategyGapAnalysis, 0.95, "trend_seeking", newScoreboard())
	assert.Equal(t, StrategyGapAnalysis, got)
}

func TestSelectStrategy_HighConfidenceIntentWins(t *testing.T) {
	got := selectStrategy("", 0.85, "trend_seeking", newScoreboard())
	assert.Equal(t, StrategyTrendMonitoring, got)
}

func TestSelectStrategy_LowConfidenceFallsBackToScoreboard(t *testing.T) {
	board := newScoreboard()
	board.record(StrategyExpertKnowledge, true)
	board.record(StrategyExpertKnowledge, true)
	board.record(StrategyGapAnalysis, false)

	got := selectStrategy("", 0.5, "trend_seeking", board)
	assert.Equal(t, StrategyExpertKnowledge, got)
}

func TestSelectStrategy_DefaultsWhenNothingElseApplies(t *testing.T) {
	got := selectStrategy("", 0, "", newScoreboard())
	assert.Equal(t, defaultStrategy, got)
}

func TestBuildUserDirectedQueries_CapsAtEight(t *testing.T) {
	queries := BuildUserDirectedQueries(userDirectedTarget("t1"), StrategyExpertKnowledge, 0, "")
	assert.LessOrEqual(t, len(queries), 8)
	assert.NotEmpty(t, queries)
}

func TestBuildAutonomousQueries_CapsAtFour(t *testing.T) {
	queries := BuildAutonomousQueries(autonomousTarget("t2"), StrategyDomainExpansion)
	assert.LessOrEqual(t, len(queries), 4)
	assert.NotEmpty(t, queries)
}

func TestBuildQueries_DispatchesByMode(t *testing.T) {
	userQueries := BuildQueries(userDirectedTarget("t1"), StrategyGapAnalysis, 0, "")
	autoQueries := BuildQueries(autonomousTarget("t2"), StrategyGapAnalysis, 0, "")

	assert.Greater(t, len(userQueries), len(autoQueries))
}

func TestExplore_EndToEndWithMocks(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg, llmiface.NewMockSemanticAnalyzer(), llmiface.NewMockWebSearchClient(), nil, nil)

	result, err := e.Explore(context.Background(), []types.ExplorationTarget{userDirectedTarget("t1")}, "")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.DiscoveredKnowledge)
	assert.NotEmpty(t, result.GeneratedSeeds)
	assert.GreaterOrEqual(t, result.QualityScore, 0.0)
	assert.LessOrEqual(t, result.QualityScore, 1.0)
	assert.Len(t, e.History(), 1)
}

func TestExplore_NoSearchClientYieldsNoKnowledge(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg, nil, nil, nil, nil)

	result, err := e.Explore(context.Background(), []types.ExplorationTarget{autonomousTarget("t2")}, StrategyDomainExpansion)
	require.NoError(t, err)
	assert.Empty(t, result.DiscoveredKnowledge)
	assert.Empty(t, result.GeneratedSeeds)
}

func TestNovelty_VectorStoreDetectsDuplicateContent(t *testing.T) {
	vs, err := knowledge.NewVectorStore(knowledge.VectorStoreConfig{
		Embedder: embeddings.NewMockEmbedder(32),
	})
	require.NoError(t, err)

	e := &Explorer{cfg: DefaultConfig(), caches: newCaches(DefaultConfig()), board: newScoreboard(), vectors: vs}

	const content = "Raft achieves consensus through leader election and log replication."

	first := e.novelty(content)
	assert.Equal(t, 0.6, first)

	e.indexForNovelty(types.KnowledgeItem{KnowledgeID: "k1", Content: content})

	second := e.novelty(content)
	assert.Equal(t, 0.2, second)
}

func TestNovelty_FallsBackToJaccardWithoutVectorStore(t *testing.T) {
	e := &Explorer{cfg: DefaultConfig(), caches: newCaches(DefaultConfig()), board: newScoreboard()}

	e.caches.addKnowledge(types.KnowledgeItem{Content: "serverless cold start mitigation strategies for Go runtimes"})

	got := e.novelty("serverless cold start mitigation strategies for Go runtimes")
	assert.Equal(t, 0.2, got)
}

func TestLinkExtractedEntities_ProjectsURLIntoConceptGraph(t *testing.T) {
	concepts := knowledge.NewConceptGraph()
	e := &Explorer{
		cfg:       DefaultConfig(),
		caches:    newCaches(DefaultConfig()),
		board:     newScoreboard(),
		concepts:  concepts,
		extractor: extraction.NewRegexExtractor(),
	}

	item := types.KnowledgeItem{
		KnowledgeID: "k1",
		Content:     "See https://example.com/raft for the full write-up.",
	}

	e.linkExtractedEntities(item)

	neighbors, err := concepts.Neighbors("entity_" + hash8("url:https://example.com/raft"))
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "k1", neighbors[0].ID)
}

func TestQualityBand_Thresholds(t *testing.T) {
	assert.Equal(t, types.QualityExcellent, qualityBand(0.9))
	assert.Equal(t, types.QualityGood, qualityBand(0.7))
	assert.Equal(t, types.QualityFair, qualityBand(0.5))
	assert.Equal(t, types.QualityPoor, qualityBand(0.3))
	assert.Equal(t, types.QualityUnreliable, qualityBand(0.1))
}

func TestJaccardSimilarity_IdenticalTextIsMaxSimilarity(t *testing.T) {
	sim := jaccardSimilarity("the quick brown fox", "the quick brown fox")
	assert.Equal(t, 1.0, sim)
}

func TestJaccardSimilarity_DisjointTextIsZero(t *testing.T) {
	sim := jaccardSimilarity("alpha beta gamma", "delta epsilon zeta")
	assert.Equal(t, 0.0, sim)
}
