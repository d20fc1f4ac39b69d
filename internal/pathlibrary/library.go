package pathlibrary

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"unified-thinking/internal/types"
)

// Library is the persistent, growable mapping path_id -> ReasoningPath
// described in spec §4.1. A single mutex guards the cache; persistence runs
// write-through, inside the lock, so on-disk state never trails the cache.
type Library struct {
	mu      sync.Mutex
	backend backend
	cache   map[string]*types.ReasoningPath

	hits   uint64
	misses uint64
}

// New creates a Library using the backend named by cfg.StorageBackend,
// loading any existing records.
func New(cfg Config) (*Library, error) {
	var b backend
	switch cfg.StorageBackend {
	case BackendJSON:
		b = newJSONBackend(cfg.StoragePath)
	case BackendRelational:
		sb, err := newSQLiteBackend(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		b = sb
	case BackendMemory, "":
		b = newMemoryBackend()
	default:
		return nil, fmt.Errorf("pathlibrary: unknown storage backend %q", cfg.StorageBackend)
	}

	cache, err := b.Load()
	if err != nil {
		return nil, fmt.Errorf("pathlibrary: loading backend: %w", err)
	}

	return &Library{backend: b, cache: cache}, nil
}

// Close releases backend resources (a no-op for memory/JSON backends).
func (l *Library) Close() error {
	return l.backend.Close()
}

// Add inserts a new path. Returns ErrDuplicateID if path_id is already
// present; the existing record is left untouched.
func (l *Library) Add(p *types.ReasoningPath) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.cache[p.PathID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.PathID)
	}

	now := time.Now()
	if p.Metadata.CreatedAt.IsZero() {
		p.Metadata.CreatedAt = now
	}
	p.Metadata.UpdatedAt = now
	if p.Metadata.EffectivenessScore == 0 {
		p.Metadata.EffectivenessScore = 0.5
	}
	if p.Metadata.Status == "" {
		p.Metadata.Status = types.PathStatusActive
	}

	l.cache[p.PathID] = p
	return l.saveLocked()
}

// Get returns the record for path_id, or ErrNotFound. Updates hit/miss
// counters as specified in §4.1.
func (l *Library) Get(pathID string) (*types.ReasoningPath, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.cache[pathID]
	if !ok {
		l.misses++
		return nil, fmt.Errorf("%w: %s", ErrNotFound, pathID)
	}
	l.hits++
	return p, nil
}

// HitRatio reports cache hits / (hits + misses); 0 if Get has never been called.
func (l *Library) HitRatio() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := l.hits + l.misses
	if total == 0 {
		return 0
	}
	return float64(l.hits) / float64(total)
}

// Query returns a snapshot of paths matching the given filters. Retired
// paths are excluded unless includeRetired is true. Empty status/category
// match any value.
func (l *Library) Query(status types.PathStatus, category types.PathCategory, includeRetired bool) []*types.ReasoningPath {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*types.ReasoningPath, 0, len(l.cache))
	for _, p := range l.cache {
		if !includeRetired && p.Metadata.Status == types.PathStatusRetired {
			continue
		}
		if status != "" && p.Metadata.Status != status {
			continue
		}
		if category != "" && p.Metadata.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ByStrategy does a linear scan of the cache for paths tied to strategyID.
func (l *Library) ByStrategy(strategyID string) []*types.ReasoningPath {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*types.ReasoningPath, 0)
	for _, p := range l.cache {
		if p.StrategyID == strategyID {
			out = append(out, p)
		}
	}
	return out
}

// UpdatePerformance applies one outcome to a path's rolling statistics and
// multiplicative effectiveness_score, then persists. rating is optional
// (nil means "not rated this time").
func (l *Library) UpdatePerformance(pathID string, success bool, executionTime float64, rating *float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.cache[pathID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, pathID)
	}

	p.Metadata.RecordOutcome(success, executionTime, rating)
	return l.saveLocked()
}

// Recommend returns up to max active paths at or above minEffectiveness,
// ranked by the recommendation score defined in §4.1.
func (l *Library) Recommend(ctx *types.TaskContext, max int, minEffectiveness float64) []*types.ReasoningPath {
	l.mu.Lock()
	candidates := make([]*types.ReasoningPath, 0, len(l.cache))
	for _, p := range l.cache {
		if p.Metadata.Status != types.PathStatusActive {
			continue
		}
		if p.Metadata.EffectivenessScore < minEffectiveness {
			continue
		}
		candidates = append(candidates, p)
	}
	l.mu.Unlock()

	sort.Slice(candidates, func(i, j int) bool {
		si, sj := recommendationScore(candidates[i], ctx), recommendationScore(candidates[j], ctx)
		if si != sj {
			return si > sj
		}
		if candidates[i].Metadata.EffectivenessScore != candidates[j].Metadata.EffectivenessScore {
			return candidates[i].Metadata.EffectivenessScore > candidates[j].Metadata.EffectivenessScore
		}
		return candidates[i].PathID < candidates[j].PathID
	})

	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

// Backup writes a full snapshot of the current cache to path, using the
// JSON backend's document format regardless of the library's configured
// backend (a portable export, independent of the live persistence choice).
func (l *Library) Backup(path string) error {
	l.mu.Lock()
	snapshot := make(map[string]*types.ReasoningPath, len(l.cache))
	for id, p := range l.cache {
		cp := *p
		snapshot[id] = &cp
	}
	l.mu.Unlock()

	return newJSONBackend(path).Save(snapshot)
}

func (l *Library) saveLocked() error {
	return l.backend.Save(l.cache)
}
