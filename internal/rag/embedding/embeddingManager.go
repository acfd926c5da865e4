package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}

// InBatches embeds chunks in groups of at most size, preserving order.
// When pacer is set every provider call waits for a token first.
func InBatches(ctx context.Context, e Embedder, chunks []string, size int, pacer *rate.Limiter) ([][]float32, error) {
	if size < 1 {
		size = len(chunks)
	}
	out := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += size {
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		end := min(start+size, len(chunks))
		vectors, err := e.BatchEmbedding(ctx, chunks[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}
