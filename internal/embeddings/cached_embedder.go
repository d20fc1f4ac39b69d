package embeddings

import "context"

// CachedEmbedder wraps an Embedder with an LRUEmbeddingCache, serving
// repeated Embed calls for identical text from cache instead of recomputing.
// It composes rather than replaces: cache misses still fall through to the
// wrapped embedder, and EmbedBatch only calls through for the texts that
// actually miss.
type CachedEmbedder struct {
	inner Embedder
	cache *LRUEmbeddingCache
}

// NewCachedEmbedder wraps inner with an LRU cache built from cfg. A nil cfg
// falls back to DefaultLRUCacheConfig.
func NewCachedEmbedder(inner Embedder, cfg *LRUCacheConfig) (*CachedEmbedder, error) {
	if cfg == nil {
		cfg = DefaultLRUCacheConfig()
	}
	cache, err := NewLRUEmbeddingCache(cfg)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v, nil
	}
	v, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, v)
	return v, nil
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		if v, ok := c.cache.Get(text); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		embedded, err := c.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, i := range missIdx {
			out[i] = embedded[j]
			c.cache.Set(texts[i], embedded[j])
		}
	}

	return out, nil
}

func (c *CachedEmbedder) Dimension() int { return c.inner.Dimension() }
func (c *CachedEmbedder) Model() string  { return c.inner.Model() }
func (c *CachedEmbedder) Provider() string { return c.inner.Provider() }

// Stats exposes the underlying LRU cache's hit/miss/eviction counters.
func (c *CachedEmbedder) Stats() map[string]interface{} { return c.cache.Stats() }

// Close releases the underlying cache's resources (auto-save goroutine,
// final flush if persistence is configured).
func (c *CachedEmbedder) Close() error { return c.cache.Close() }
