// Package llmiface defines the external collaborator contracts the
// cognitive core calls out to (§6): the LLM-backed dimension creator and
// path generator, the optional semantic analyzer, and the optional web
// search client. LLM-call mechanics, model selection, and search transport
// are explicitly out of scope for the core; this package only fixes the
// shape of the call.
package llmiface

import (
	"context"

	"unified-thinking/internal/types"
)

// GenerationMode selects between a path generator's normal and
// deliberately-unconventional ("aha-moment") generation modes.
type GenerationMode string

const (
	ModeNormal        GenerationMode = "normal"
	ModeCreativeBypass GenerationMode = "creative_bypass"
)

// DimensionCreator produces alternative solution angles for a task or
// query, used by the Retrospection Engine's Ideate stage.
type DimensionCreator interface {
	CreateDynamicDimensions(ctx context.Context, taskOrQuery string, numDimensions int, creativityLevel types.CreativityLevel, context types.Metadata) ([]types.Dimension, error)
}

// PathGenerator produces ReasoningPath candidates from a thinking seed and
// task description, used by both the Retrospection Engine's Ideate stage
// and the Knowledge Explorer's seed-to-path learning.
type PathGenerator interface {
	GeneratePaths(ctx context.Context, thinkingSeed, task string, maxPaths int, mode GenerationMode) ([]types.ReasoningPath, error)
}

// SemanticAnalysisResult is one task's analysis output from a batch
// SemanticAnalyzer run.
type SemanticAnalysisResult struct {
	TaskID     string
	Intent     string
	Domain     string
	Confidence float64
}

// SemanticAnalyzer is an optional batch classifier used to drive query
// construction and strategy selection when confidence is high enough
// (>= 0.7); callers fall back to keyword heuristics otherwise.
type SemanticAnalyzer interface {
	Analyze(ctx context.Context, tasks []string) ([]SemanticAnalysisResult, error)
}

// WebSearchResult is one hit returned by a WebSearchClient.
type WebSearchResult struct {
	Title   string
	Snippet string
	Link    string
	Source  string
}

// WebSearchClient is an optional information source for the Knowledge
// Explorer's Collect stage. Transport details (HTTP client, API keys,
// rate limiting) are out of scope for the core.
type WebSearchClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]WebSearchResult, error)
}
