package llmiface

import (
	"context"
	"fmt"

	"unified-thinking/internal/types"
)

// MockDimensionCreator returns fixed or templated dimensions for testing
// without a real LLM collaborator.
type MockDimensionCreator struct {
	FailOnCreate bool
}

// NewMockDimensionCreator creates a dimension creator stub.
func NewMockDimensionCreator() *MockDimensionCreator { return &MockDimensionCreator{} }

func (m *MockDimensionCreator) CreateDynamicDimensions(ctx context.Context, taskOrQuery string, numDimensions int, creativityLevel types.CreativityLevel, context types.Metadata) ([]types.Dimension, error) {
	if m.FailOnCreate {
		return nil, fmt.Errorf("mock dimension creator configured to fail")
	}
	if numDimensions <= 0 {
		return nil, nil
	}

	dims := make([]types.Dimension, 0, numDimensions)
	for i := 0; i < numDimensions; i++ {
		dims = append(dims, types.Dimension{
			DimensionID:     fmt.Sprintf("dim_%d", i+1),
			Description:     fmt.Sprintf("Alternative angle %d on: %s", i+1, taskOrQuery),
			CreativityLevel: creativityLevel,
		})
	}
	return dims, nil
}

// MockPathGenerator returns fixed paths for testing without a real LLM
// collaborator.
type MockPathGenerator struct {
	FailOnGenerate bool
	FixedConfidence float64 // confidence assigned to every generated path
}

// NewMockPathGenerator creates a path generator stub with confidence high
// enough to survive the Ideate stage's >= 0.3 filter by default.
func NewMockPathGenerator() *MockPathGenerator {
	return &MockPathGenerator{FixedConfidence: 0.5}
}

func (m *MockPathGenerator) GeneratePaths(ctx context.Context, thinkingSeed, task string, maxPaths int, mode GenerationMode) ([]types.ReasoningPath, error) {
	if m.FailOnGenerate {
		return nil, fmt.Errorf("mock path generator configured to fail")
	}
	if maxPaths <= 0 {
		return nil, nil
	}

	category := types.PathAnalytical
	if mode == ModeCreativeBypass {
		category = types.PathCreative
	}

	paths := make([]types.ReasoningPath, 0, maxPaths)
	for i := 0; i < maxPaths; i++ {
		paths = append(paths, types.ReasoningPath{
			PathID:         fmt.Sprintf("mock_path_%s_%d", mode, i+1),
			PathType:       string(category),
			Description:    fmt.Sprintf("Generated from seed %q for task %q", thinkingSeed, task),
			PromptTemplate: "Task: {task}\nSeed: {thinking_seed}",
			Metadata: types.PathMetadata{
				Category:           category,
				Status:             types.PathStatusExperimental,
				EffectivenessScore: m.FixedConfidence,
			},
		})
	}
	return paths, nil
}

// MockSemanticAnalyzer returns a fixed confidence/intent/domain for every
// task, for testing the semantic-analyzer-present code path.
type MockSemanticAnalyzer struct {
	Confidence float64
	Intent     string
	Domain     string
}

// NewMockSemanticAnalyzer creates an analyzer stub above the 0.7 confidence
// threshold by default.
func NewMockSemanticAnalyzer() *MockSemanticAnalyzer {
	return &MockSemanticAnalyzer{Confidence: 0.85, Intent: "solution_seeking", Domain: "general"}
}

func (m *MockSemanticAnalyzer) Analyze(ctx context.Context, tasks []string) ([]SemanticAnalysisResult, error) {
	results := make([]SemanticAnalysisResult, len(tasks))
	for i, t := range tasks {
		results[i] = SemanticAnalysisResult{TaskID: t, Intent: m.Intent, Domain: m.Domain, Confidence: m.Confidence}
	}
	return results, nil
}

// MockWebSearchClient returns fixed results for testing the Collect stage
// without network access.
type MockWebSearchClient struct {
	FailOnSearch bool
	Results      []WebSearchResult
}

// NewMockWebSearchClient creates a search client stub returning a handful
// of generic results for any query.
func NewMockWebSearchClient() *MockWebSearchClient {
	return &MockWebSearchClient{
		Results: []WebSearchResult{
			{Title: "Result A", Snippet: "A reasonably detailed snippet about the query topic that exceeds minimal length.", Link: "https://example.com/a", Source: "web_search"},
			{Title: "Result B", Snippet: "Another snippet covering related ground in more depth than the first.", Link: "https://example.com/b", Source: "web_search"},
		},
	}
}

func (m *MockWebSearchClient) Search(ctx context.Context, query string, maxResults int) ([]WebSearchResult, error) {
	if m.FailOnSearch {
		return nil, fmt.Errorf("mock web search client configured to fail")
	}
	if maxResults > 0 && maxResults < len(m.Results) {
		return m.Results[:maxResults], nil
	}
	return m.Results, nil
}
