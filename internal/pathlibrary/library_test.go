package pathlibrary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-thinking/internal/types"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := New(DefaultConfig())
	require.NoError(t, err)
	return lib
}

func TestLibrary_AddAndGet(t *testing.T) {
	lib := newTestLibrary(t)

	path := &types.ReasoningPath{
		PathID:         "p1",
		PathType:       "analytical",
		PromptTemplate: "solve {task}",
		StrategyID:     "s1",
	}

	require.NoError(t, lib.Add(path))

	got, err := lib.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "analytical", got.PathType)
	assert.Equal(t, types.PathStatusActive, got.Metadata.Status)
	assert.Equal(t, 0.5, got.Metadata.EffectivenessScore)
}

func TestLibrary_AddDuplicateIsNoop(t *testing.T) {
	lib := newTestLibrary(t)
	path := &types.ReasoningPath{PathID: "p1", StrategyID: "s1"}

	require.NoError(t, lib.Add(path))
	err := lib.Add(&types.ReasoningPath{PathID: "p1", StrategyID: "s2"})
	require.ErrorIs(t, err, ErrDuplicateID)

	got, err := lib.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.StrategyID)
}

func TestLibrary_GetNotFound(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLibrary_UpdatePerformance(t *testing.T) {
	lib := newTestLibrary(t)
	require.NoError(t, lib.Add(&types.ReasoningPath{PathID: "p1", StrategyID: "s1"}))

	rating := 0.8
	for i := 0; i < 3; i++ {
		require.NoError(t, lib.UpdatePerformance("p1", true, 2.0, &rating))
	}

	got, err := lib.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Metadata.UsageCount)
	assert.Equal(t, 1.0, got.Metadata.SuccessRate)
	assert.Equal(t, 0.8, got.Metadata.AverageRating)
	assert.Equal(t, 6.0, got.Metadata.TotalExecutionTime)
	assert.InDelta(t, 0.5*1.05*1.05*1.05, got.Metadata.EffectivenessScore, 1e-9)
}

func TestLibrary_UpdatePerformanceNotFound(t *testing.T) {
	lib := newTestLibrary(t)
	err := lib.UpdatePerformance("missing", true, 1.0, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLibrary_QueryExcludesRetiredByDefault(t *testing.T) {
	lib := newTestLibrary(t)
	require.NoError(t, lib.Add(&types.ReasoningPath{PathID: "active1", StrategyID: "s1", Metadata: types.PathMetadata{Status: types.PathStatusActive}}))
	require.NoError(t, lib.Add(&types.ReasoningPath{PathID: "retired1", StrategyID: "s1", Metadata: types.PathMetadata{Status: types.PathStatusRetired}}))

	active := lib.Query("", "", false)
	assert.Len(t, active, 1)

	all := lib.Query("", "", true)
	assert.Len(t, all, 2)
}

func TestLibrary_RecommendFiltersByMinEffectiveness(t *testing.T) {
	lib := newTestLibrary(t)
	require.NoError(t, lib.Add(&types.ReasoningPath{
		PathID: "low", StrategyID: "s1",
		Metadata: types.PathMetadata{Status: types.PathStatusActive, EffectivenessScore: 0.2},
	}))
	require.NoError(t, lib.Add(&types.ReasoningPath{
		PathID: "high", StrategyID: "s1",
		Metadata: types.PathMetadata{Status: types.PathStatusActive, EffectivenessScore: 0.9},
	}))

	recs := lib.Recommend(nil, 10, 0.3)
	require.Len(t, recs, 1)
	assert.Equal(t, "high", recs[0].PathID)
}

func TestLibrary_RecommendMinEffectivenessOneRequiresExactMatch(t *testing.T) {
	lib := newTestLibrary(t)
	require.NoError(t, lib.Add(&types.ReasoningPath{
		PathID: "p1", StrategyID: "s1",
		Metadata: types.PathMetadata{Status: types.PathStatusActive, EffectivenessScore: 0.99},
	}))

	recs := lib.Recommend(nil, 10, 1.0)
	assert.Empty(t, recs)
}

func TestLibrary_MigrateFromTemplatesIsIdempotent(t *testing.T) {
	lib := newTestLibrary(t)

	first, err := lib.MigrateFromTemplates(DefaultTemplates())
	require.NoError(t, err)
	assert.Len(t, first, len(DefaultTemplates()))

	second, err := lib.MigrateFromTemplates(DefaultTemplates())
	require.NoError(t, err)
	assert.Empty(t, second)

	all := lib.Query("", "", true)
	assert.Len(t, all, len(DefaultTemplates()))
}

func TestLibrary_LearnFromExplorationSkipsEmptyAndDuplicateSeeds(t *testing.T) {
	lib := newTestLibrary(t)

	result := &types.ExplorationResult{
		GeneratedSeeds: []types.ThinkingSeed{
			{SeedID: "s1", Content: "a fresh idea about caching", CreativityLevel: types.CreativityHigh},
			{SeedID: "s2", Content: ""},
		},
	}

	created, err := lib.LearnFromExploration(result, "exploration")
	require.NoError(t, err)
	require.Len(t, created, 1)

	path, err := lib.Get(created[0])
	require.NoError(t, err)
	assert.True(t, path.Metadata.IsLearned)
	assert.Equal(t, "exploration", path.Metadata.LearningSource)
	assert.Equal(t, types.PathCreative, path.Metadata.Category)

	// Re-running with the same content yields no new paths.
	createdAgain, err := lib.LearnFromExploration(result, "exploration")
	require.NoError(t, err)
	assert.Empty(t, createdAgain)
}
