// Package config provides configuration management for the cognitive
// scheduler server.
//
// Configuration can be loaded from multiple sources (in order of precedence):
// 1. Environment variables (highest priority)
// 2. Configuration file (JSON)
// 3. Default values (lowest priority)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"unified-thinking/internal/explorer"
	"unified-thinking/internal/pathlibrary"
	"unified-thinking/internal/retrospection"
)

// Config represents the complete server configuration.
type Config struct {
	Server ServerConfig `json:"server"`
	Logging LoggingConfig `json:"logging"`

	IdleDetection  IdleDetectionConfig  `json:"idle_detection"`
	CognitiveTasks CognitiveTasksConfig `json:"cognitive_tasks"`

	KnowledgeExploration KnowledgeExplorationConfig `json:"knowledge_exploration"`
	Explorer             explorer.Config            `json:"explorer"`

	Retrospection retrospection.Config `json:"retrospection"`
	PathLibrary   pathlibrary.Config   `json:"path_library"`
}

// ServerConfig contains server-level configuration.
type ServerConfig struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	WorkerCount int    `json:"worker_count"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level            string `json:"level"`
	Format           string `json:"format"`
	EnableTimestamps bool   `json:"enable_timestamps"`
}

// IdleDetectionConfig tunes the scheduler's idle detector (§4.4).
type IdleDetectionConfig struct {
	MinIdleDuration      time.Duration `json:"min_idle_duration"`
	CheckInterval        time.Duration `json:"check_interval"`
	TaskCompletionBuffer time.Duration `json:"task_completion_buffer"`
}

// CognitiveTasksConfig tunes the scheduler's background task cadence (§4.4).
type CognitiveTasksConfig struct {
	RetrospectionInterval time.Duration `json:"retrospection_interval"`
	IdeationInterval      time.Duration `json:"ideation_interval"`
	ExplorationInterval   time.Duration `json:"exploration_interval"`
	MaxConcurrentTasks    int           `json:"max_concurrent_tasks"`
	TaskTimeout           time.Duration `json:"task_timeout"`
}

// DualTrackConfig governs the independent worker-pool capacities for
// user-directed and autonomous exploration jobs (§4.4).
type DualTrackConfig struct {
	UserDirectedPriority    int `json:"user_directed_priority"`
	AutonomousPriority      int `json:"autonomous_priority"`
	MaxConcurrentUserTasks  int `json:"max_concurrent_user_tasks"`
	MaxConcurrentAutonomous int `json:"max_concurrent_autonomous"`
}

// KnowledgeExplorationConfig tunes scheduler-side exploration dispatch
// (distinct from explorer.Config, which tunes the pipeline itself).
type KnowledgeExplorationConfig struct {
	MaxExplorationDepth int             `json:"max_exploration_depth"`
	EnableWebSearch     bool            `json:"enable_web_search"`
	KnowledgeThreshold  float64         `json:"knowledge_threshold"`
	ExplorationTimeout  time.Duration   `json:"exploration_timeout"`
	UserDirectedTimeout time.Duration   `json:"user_directed_timeout"`
	DualTrack           DualTrackConfig `json:"dual_track_config"`
}

// Default returns the default configuration named throughout §4.4 and §6.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:        "cognitive-scheduler",
			Version:     "1.0.0",
			Environment: "development",
			WorkerCount: 2,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			EnableTimestamps: true,
		},
		IdleDetection: IdleDetectionConfig{
			MinIdleDuration:      10 * time.Second,
			CheckInterval:        2 * time.Second,
			TaskCompletionBuffer: 1 * time.Second,
		},
		CognitiveTasks: CognitiveTasksConfig{
			RetrospectionInterval: 60 * time.Second,
			IdeationInterval:      120 * time.Second,
			ExplorationInterval:   180 * time.Second,
			MaxConcurrentTasks:    2,
			TaskTimeout:           180 * time.Second,
		},
		KnowledgeExploration: KnowledgeExplorationConfig{
			MaxExplorationDepth: 3,
			EnableWebSearch:     true,
			KnowledgeThreshold:  0.4,
			ExplorationTimeout:  60 * time.Second,
			UserDirectedTimeout: 30 * time.Second,
			DualTrack: DualTrackConfig{
				UserDirectedPriority:    10,
				AutonomousPriority:      3,
				MaxConcurrentUserTasks:  3,
				MaxConcurrentAutonomous: 1,
			},
		},
		Explorer:      explorer.DefaultConfig(),
		Retrospection: retrospection.DefaultConfig(),
		PathLibrary:   pathlibrary.DefaultConfig(),
	}
}

// Load loads configuration from environment variables and applies defaults.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file, then overlays
// environment variables on top.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFromEnv overlays a handful of the most commonly tuned knobs.
// Environment variables follow the pattern UT_<SECTION>_<KEY>.
func (c *Config) loadFromEnv() error {
	if v := os.Getenv("UT_SERVER_NAME"); v != "" {
		c.Server.Name = v
	}
	if v := os.Getenv("UT_SERVER_WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.WorkerCount = n
		}
	}
	if v := os.Getenv("UT_LOGGING_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("UT_LOGGING_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("UT_IDLE_MIN_DURATION_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.IdleDetection.MinIdleDuration = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("UT_IDLE_CHECK_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.IdleDetection.CheckInterval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("UT_COGNITIVE_MAX_CONCURRENT_TASKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CognitiveTasks.MaxConcurrentTasks = n
		}
	}
	if v := os.Getenv("UT_KNOWLEDGE_ENABLE_WEB_SEARCH"); v != "" {
		c.KnowledgeExploration.EnableWebSearch = parseBool(v)
	}

	c.Explorer = explorer.ConfigFromEnv()
	c.Retrospection = retrospection.ConfigFromEnv()
	c.PathLibrary = pathlibrary.ConfigFromEnv()

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server.name cannot be empty")
	}
	if c.Server.Environment != "development" && c.Server.Environment != "staging" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be one of: development, staging, production")
	}
	if c.Server.WorkerCount < 1 {
		return fmt.Errorf("server.worker_count must be >= 1")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}

	if c.IdleDetection.MinIdleDuration <= 0 {
		return fmt.Errorf("idle_detection.min_idle_duration must be positive")
	}
	if c.IdleDetection.CheckInterval <= 0 {
		return fmt.Errorf("idle_detection.check_interval must be positive")
	}
	if c.CognitiveTasks.MaxConcurrentTasks < 1 {
		return fmt.Errorf("cognitive_tasks.max_concurrent_tasks must be >= 1")
	}

	dt := c.KnowledgeExploration.DualTrack
	if dt.MaxConcurrentUserTasks < 1 {
		return fmt.Errorf("knowledge_exploration.dual_track_config.max_concurrent_user_tasks must be >= 1")
	}
	if dt.MaxConcurrentAutonomous < 1 {
		return fmt.Errorf("knowledge_exploration.dual_track_config.max_concurrent_autonomous must be >= 1")
	}

	switch c.PathLibrary.StorageBackend {
	case pathlibrary.BackendMemory, pathlibrary.BackendJSON, pathlibrary.BackendRelational:
	default:
		return fmt.Errorf("path_library.storage_backend must be one of: memory, json, relational")
	}

	return nil
}

// parseBool parses a boolean from string (handles various formats).
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on" || s == "enabled"
}

// ToJSON serializes the configuration to JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
