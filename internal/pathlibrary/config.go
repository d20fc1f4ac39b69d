package pathlibrary

import (
	"log"
	"os"
	"strconv"
)

// StorageBackend is the closed set of persistence backends the library
// supports, named as in the configuration surface ("storage_backend").
type StorageBackend string

const (
	BackendMemory     StorageBackend = "memory"
	BackendJSON        StorageBackend = "json"
	BackendRelational  StorageBackend = "relational"
)

// Config holds path-library configuration.
type Config struct {
	StorageBackend StorageBackend
	StoragePath    string // JSON file path, or SQLite DSN
	CacheSize      int    // soft hint; the cache itself is unbounded by design
}

// DefaultConfig returns default configuration with in-memory storage.
func DefaultConfig() Config {
	return Config{
		StorageBackend: BackendMemory,
		StoragePath:    "./data/reasoning_paths.json",
		CacheSize:      1000,
	}
}

// ConfigFromEnv reads path-library configuration from environment variables:
//   - PATHLIBRARY_BACKEND: "memory" (default), "json", or "relational"
//   - PATHLIBRARY_PATH: file path (JSON) or DSN (relational)
//   - PATHLIBRARY_CACHE_SIZE: soft cache-size hint
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if backend := os.Getenv("PATHLIBRARY_BACKEND"); backend != "" {
		cfg.StorageBackend = StorageBackend(backend)
	}
	if path := os.Getenv("PATHLIBRARY_PATH"); path != "" {
		cfg.StoragePath = path
	}
	if v := os.Getenv("PATHLIBRARY_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheSize = n
		}
	}
	if cfg.StorageBackend != BackendMemory && cfg.StoragePath == "" {
		log.Printf("[WARN] pathlibrary: no storage path configured for backend %q, falling back to memory", cfg.StorageBackend)
		cfg.StorageBackend = BackendMemory
	}

	return cfg
}
