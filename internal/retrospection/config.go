// Package retrospection implements the Retrospection Engine (C4): a
// three-stage pipeline (Select -> Ideate -> Assimilate) over historical
// conversation turns, plus an always-on tool-usage post-mortem.
package retrospection

import (
	"os"
	"strconv"
)

// Config holds task-selection, ideation and assimilation tunables (§4.3, §6).
type Config struct {
	DefaultStrategy      SelectionStrategy
	MaxTaskAgeHours      float64
	FailurePriorityBoost float64
	MaxTasksPerSession    int

	EnableLLMDimensions       bool
	EnableAhaMoment           bool
	MaxNewDimensions          int
	MaxCreativePaths          int
	CreativePromptTemperature float64

	EnableMABInjection       bool
	InitialExplorationReward float64
}

// DefaultConfig returns the defaults named throughout §4.3.
func DefaultConfig() Config {
	return Config{
		DefaultStrategy:           StrategyFailureFocused,
		MaxTaskAgeHours:           24,
		FailurePriorityBoost:      1.5,
		MaxTasksPerSession:        10,
		EnableLLMDimensions:       true,
		EnableAhaMoment:           true,
		MaxNewDimensions:          3,
		MaxCreativePaths:          4,
		CreativePromptTemperature: 0.9,
		EnableMABInjection:        true,
		InitialExplorationReward:  0.1,
	}
}

// ConfigFromEnv overlays environment variables onto DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("RETROSPECTION_DEFAULT_STRATEGY"); v != "" {
		cfg.DefaultStrategy = SelectionStrategy(v)
	}
	if v := os.Getenv("RETROSPECTION_MAX_AGE_HOURS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MaxTaskAgeHours = f
		}
	}
	if v := os.Getenv("RETROSPECTION_MAX_NEW_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxNewDimensions = n
		}
	}
	if v := os.Getenv("RETROSPECTION_MAX_CREATIVE_PATHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxCreativePaths = n
		}
	}
	if v := os.Getenv("RETROSPECTION_ENABLE_MAB_INJECTION"); v != "" {
		cfg.EnableMABInjection = v != "false" && v != "0"
	}

	return cfg
}
