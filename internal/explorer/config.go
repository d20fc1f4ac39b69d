// Package explorer implements the Knowledge Explorer (C3): a five-stage
// pipeline (Collect -> Evaluate -> Seed -> Trend -> Cross-domain) that turns
// ExplorationTargets into KnowledgeItems, ThinkingSeeds, Trends, and
// cross-domain insights.
package explorer

import (
	"os"
	"strconv"
)

// Config holds Knowledge Explorer thresholds and cache ceilings (§4.2, §6).
type Config struct {
	MaxParallelExplorations int
	MaxSeedsPerExploration  int
	MinConfidenceThreshold  float64
	MinRelevanceThreshold   float64

	KnowledgeCacheCap int
	SeedCacheCap      int
	HistoryCap        int

	EnableWebSearch bool
}

// DefaultConfig returns the defaults named throughout §4.2.
func DefaultConfig() Config {
	return Config{
		MaxParallelExplorations: 4,
		MaxSeedsPerExploration:  5,
		MinConfidenceThreshold:  0.4,
		MinRelevanceThreshold:   0.3,
		KnowledgeCacheCap:       500,
		SeedCacheCap:            300,
		HistoryCap:              100,
		EnableWebSearch:         true,
	}
}

// ConfigFromEnv overlays environment variables onto DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("EXPLORER_MAX_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxParallelExplorations = n
		}
	}
	if v := os.Getenv("EXPLORER_MAX_SEEDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSeedsPerExploration = n
		}
	}
	if v := os.Getenv("EXPLORER_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinConfidenceThreshold = f
		}
	}
	if v := os.Getenv("EXPLORER_MIN_RELEVANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinRelevanceThreshold = f
		}
	}
	if v := os.Getenv("EXPLORER_ENABLE_WEB_SEARCH"); v != "" {
		cfg.EnableWebSearch = v != "false" && v != "0"
	}

	return cfg
}
