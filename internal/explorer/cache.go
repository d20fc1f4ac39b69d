package explorer

import (
	"sort"
	"sync"

	"unified-thinking/internal/types"
)

// caches holds the explorer's mutable state: the knowledge and seed caches
// and the exploration history, each soft-capped per §4.2. When a cache
// exceeds its cap, the oldest half (by timestamp/insertion order) is
// evicted. Mutated only by the completing worker, per §5.
type caches struct {
	mu sync.Mutex

	knowledgeCap int
	seedCap      int
	historyCap   int

	knowledge []types.KnowledgeItem
	seeds     []types.ThinkingSeed
	history   []types.ExplorationResult
}

func newCaches(cfg Config) *caches {
	return &caches{
		knowledgeCap: cfg.KnowledgeCacheCap,
		seedCap:      cfg.SeedCacheCap,
		historyCap:   cfg.HistoryCap,
	}
}

func (c *caches) addKnowledge(items ...types.KnowledgeItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.knowledge = append(c.knowledge, items...)
	if len(c.knowledge) > c.knowledgeCap {
		c.knowledge = evictOldestHalf(c.knowledge, func(k types.KnowledgeItem) int64 {
			return k.DiscoveredAt.UnixNano()
		})
	}
}

// recentKnowledge returns the last n cached items (most recently added
// last), used by Evaluate's novelty check against "the last 10 cached
// items".
func (c *caches) recentKnowledge(n int) []types.KnowledgeItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > len(c.knowledge) {
		n = len(c.knowledge)
	}
	start := len(c.knowledge) - n
	out := make([]types.KnowledgeItem, n)
	copy(out, c.knowledge[start:])
	return out
}

func (c *caches) addSeeds(seeds ...types.ThinkingSeed) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seeds = append(c.seeds, seeds...)
	if len(c.seeds) > c.seedCap {
		c.seeds = c.seeds[len(c.seeds)/2:]
	}
}

func (c *caches) addHistory(result types.ExplorationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, result)
	if len(c.history) > c.historyCap {
		c.history = c.history[len(c.history)/2:]
	}
}

func (c *caches) History() []types.ExplorationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.ExplorationResult, len(c.history))
	copy(out, c.history)
	return out
}

// evictOldestHalf drops the older half of items ranked by keyFn ascending,
// keeping the newer half. Used for the knowledge cache, which is not
// strictly append-ordered once merged from parallel targets.
func evictOldestHalf[T any](items []T, keyFn func(T) int64) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return keyFn(sorted[i]) < keyFn(sorted[j]) })
	return sorted[len(sorted)/2:]
}
