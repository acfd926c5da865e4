package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes single-text embeddings. Batch calls pass through.
type Cached struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

func NewCached(inner Embedder, size int) (*Cached, error) {
	c, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: c}, nil
}

func (c *Cached) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v, nil
	}
	v, err := c.inner.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, v)
	return v, nil
}

// BatchEmbedding is ingestion-only traffic and bypasses the cache.
func (c *Cached) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return c.inner.BatchEmbedding(ctx, chunks)
}
