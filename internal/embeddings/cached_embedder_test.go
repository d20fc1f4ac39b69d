package embeddings_test

import (
	"context"
	"testing"

	"unified-thinking/internal/embeddings"
)

func TestCachedEmbedder_SecondCallHitsCache(t *testing.T) {
	inner := embeddings.NewMockEmbedder(32)
	cached, err := embeddings.NewCachedEmbedder(inner, nil)
	if err != nil {
		t.Fatalf("NewCachedEmbedder() failed: %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	first, err := cached.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("Embed() failed: %v", err)
	}

	second, err := cached.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("Embed() (cached) failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected matching dimensions, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected cached embedding to be identical at index %d", i)
		}
	}

	stats := cached.Stats()
	if hits, _ := stats["hits"].(int64); hits < 1 {
		t.Errorf("expected at least one cache hit, got stats: %v", stats)
	}
}

func TestCachedEmbedder_EmbedBatchOnlyRecomputesMisses(t *testing.T) {
	inner := embeddings.NewMockEmbedder(16)
	cached, err := embeddings.NewCachedEmbedder(inner, nil)
	if err != nil {
		t.Fatalf("NewCachedEmbedder() failed: %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	if _, err := cached.Embed(ctx, "warm"); err != nil {
		t.Fatalf("Embed() failed: %v", err)
	}

	results, err := cached.EmbedBatch(ctx, []string{"warm", "cold"})
	if err != nil {
		t.Fatalf("EmbedBatch() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if len(r) != 16 {
			t.Errorf("result %d: expected dimension 16, got %d", i, len(r))
		}
	}
}

func TestCachedEmbedder_DelegatesMetadata(t *testing.T) {
	inner := embeddings.NewMockEmbedder(8)
	cached, err := embeddings.NewCachedEmbedder(inner, nil)
	if err != nil {
		t.Fatalf("NewCachedEmbedder() failed: %v", err)
	}
	defer cached.Close()

	if cached.Dimension() != 8 {
		t.Errorf("expected dimension 8, got %d", cached.Dimension())
	}
	if cached.Model() != inner.Model() {
		t.Errorf("expected model %q, got %q", inner.Model(), cached.Model())
	}
	if cached.Provider() != inner.Provider() {
		t.Errorf("expected provider %q, got %q", inner.Provider(), cached.Provider())
	}
}
