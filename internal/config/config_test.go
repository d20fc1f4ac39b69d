package config

import (
	"os"
	"path/filepath"
	"testing"

	"unified-thinking/internal/pathlibrary"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Name != "cognitive-scheduler" {
		t.Errorf("Expected server name 'cognitive-scheduler', got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Expected environment 'development', got '%s'", cfg.Server.Environment)
	}
	if cfg.Server.WorkerCount != 2 {
		t.Errorf("Expected WorkerCount 2, got %d", cfg.Server.WorkerCount)
	}

	if cfg.IdleDetection.MinIdleDuration.Seconds() != 10 {
		t.Errorf("Expected min_idle_duration 10s, got %v", cfg.IdleDetection.MinIdleDuration)
	}
	if cfg.KnowledgeExploration.DualTrack.UserDirectedPriority != 10 {
		t.Errorf("Expected user_directed_priority 10, got %d", cfg.KnowledgeExploration.DualTrack.UserDirectedPriority)
	}
	if cfg.PathLibrary.StorageBackend != pathlibrary.BackendMemory {
		t.Errorf("Expected default storage backend memory, got %q", cfg.PathLibrary.StorageBackend)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.Logging.Level)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Server.Name != "cognitive-scheduler" {
		t.Errorf("Expected default server name, got '%s'", cfg.Server.Name)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)

	_ = os.Setenv("UT_SERVER_NAME", "test-server")
	_ = os.Setenv("UT_SERVER_WORKER_COUNT", "4")
	_ = os.Setenv("UT_IDLE_MIN_DURATION_SECONDS", "30")
	_ = os.Setenv("UT_COGNITIVE_MAX_CONCURRENT_TASKS", "5")
	_ = os.Setenv("UT_LOGGING_LEVEL", "debug")
	defer clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Name != "test-server" {
		t.Errorf("Expected server name 'test-server', got '%s'", cfg.Server.Name)
	}
	if cfg.Server.WorkerCount != 4 {
		t.Errorf("Expected WorkerCount 4, got %d", cfg.Server.WorkerCount)
	}
	if cfg.IdleDetection.MinIdleDuration.Seconds() != 30 {
		t.Errorf("Expected min_idle_duration 30s, got %v", cfg.IdleDetection.MinIdleDuration)
	}
	if cfg.CognitiveTasks.MaxConcurrentTasks != 5 {
		t.Errorf("Expected MaxConcurrentTasks 5, got %d", cfg.CognitiveTasks.MaxConcurrentTasks)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"server": {
			"name": "file-server",
			"version": "2.0.0",
			"environment": "staging",
			"worker_count": 3
		},
		"logging": {
			"level": "warn",
			"format": "json",
			"enable_timestamps": false
		}
	}`

	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	clearEnv(t)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Server.Name != "file-server" {
		t.Errorf("Expected server name 'file-server', got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Version != "2.0.0" {
		t.Errorf("Expected version '2.0.0', got '%s'", cfg.Server.Version)
	}
	if cfg.Server.Environment != "staging" {
		t.Errorf("Expected environment 'staging', got '%s'", cfg.Server.Environment)
	}
	if cfg.Server.WorkerCount != 3 {
		t.Errorf("Expected WorkerCount 3, got %d", cfg.Server.WorkerCount)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level 'warn', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected log format 'json', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"server": {
			"name": "file-server",
			"environment": "staging"
		}
	}`

	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	clearEnv(t)
	_ = os.Setenv("UT_SERVER_NAME", "env-server")
	defer clearEnv(t)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Server.Name != "env-server" {
		t.Errorf("Expected server name 'env-server' (env override), got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Environment != "staging" {
		t.Errorf("Expected environment 'staging' (from file), got '%s'", cfg.Server.Environment)
	}
}

func TestValidate(t *testing.T) {
	base := func(mutate func(*Config)) *Config {
		cfg := Default()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid default config",
			cfg:     Default(),
			wantErr: false,
		},
		{
			name:    "empty server name",
			cfg:     base(func(c *Config) { c.Server.Name = "" }),
			wantErr: true,
			errMsg:  "server.name cannot be empty",
		},
		{
			name:    "invalid environment",
			cfg:     base(func(c *Config) { c.Server.Environment = "invalid" }),
			wantErr: true,
			errMsg:  "server.environment must be one of",
		},
		{
			name:    "invalid worker count",
			cfg:     base(func(c *Config) { c.Server.WorkerCount = 0 }),
			wantErr: true,
			errMsg:  "server.worker_count must be >= 1",
		},
		{
			name:    "invalid log level",
			cfg:     base(func(c *Config) { c.Logging.Level = "verbose" }),
			wantErr: true,
			errMsg:  "logging.level must be one of",
		},
		{
			name:    "invalid log format",
			cfg:     base(func(c *Config) { c.Logging.Format = "xml" }),
			wantErr: true,
			errMsg:  "logging.format must be 'text' or 'json'",
		},
		{
			name:    "non-positive idle duration",
			cfg:     base(func(c *Config) { c.IdleDetection.MinIdleDuration = 0 }),
			wantErr: true,
			errMsg:  "idle_detection.min_idle_duration must be positive",
		},
		{
			name:    "zero max concurrent tasks",
			cfg:     base(func(c *Config) { c.CognitiveTasks.MaxConcurrentTasks = 0 }),
			wantErr: true,
			errMsg:  "cognitive_tasks.max_concurrent_tasks must be >= 1",
		},
		{
			name:    "invalid storage backend",
			cfg:     base(func(c *Config) { c.PathLibrary.StorageBackend = "postgresql" }),
			wantErr: true,
			errMsg:  "path_library.storage_backend must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, should contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"1", true},
		{"yes", true},
		{"YES", true},
		{"on", true},
		{"enabled", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"disabled", false},
		{"", false},
		{"invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseBool(tt.input)
			if result != tt.expected {
				t.Errorf("parseBool(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	cfg := Default()
	data, err := cfg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("ToJSON() returned empty data")
	}

	jsonStr := string(data)
	if !contains(jsonStr, "server") {
		t.Error("JSON should contain 'server' field")
	}
	if !contains(jsonStr, "explorer") {
		t.Error("JSON should contain 'explorer' field")
	}
}

func TestSaveToFile(t *testing.T) {
	cfg := Default()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saved-config.json")

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() failed: %v", err)
	}

	loadedCfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() after save failed: %v", err)
	}
	if loadedCfg.Server.Name != cfg.Server.Name {
		t.Errorf("Loaded config doesn't match saved config: %s != %s", loadedCfg.Server.Name, cfg.Server.Name)
	}
}

// Helper functions

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"UT_SERVER_NAME",
		"UT_SERVER_WORKER_COUNT",
		"UT_LOGGING_LEVEL",
		"UT_LOGGING_FORMAT",
		"UT_IDLE_MIN_DURATION_SECONDS",
		"UT_IDLE_CHECK_INTERVAL_SECONDS",
		"UT_COGNITIVE_MAX_CONCURRENT_TASKS",
		"UT_KNOWLEDGE_ENABLE_WEB_SEARCH",
	}

	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func contains(s, substr string) bool {
	if len(s) == 0 || len(substr) == 0 {
		return false
	}
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
