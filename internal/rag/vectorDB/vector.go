package vectorDB

import (
	"context"
	"fmt"
	"math"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
)

// Searcher is the read side used on the answer path. Both searches return hits
// ordered by similarity descending, at most topK, none below minSimilarity.
type Searcher interface {
	// SearchQA only considers pairs visible to requester (its own tag or "both").
	SearchQA(ctx context.Context, vector []float32, requester commonModels.Audience, topK int, minSimilarity float64) ([]answerModel.QAMatch, error)
	// SearchChunks only considers chunks stored under partition.
	SearchChunks(ctx context.Context, vector []float32, partition commonModels.Partition, topK int, minSimilarity float64) ([]answerModel.RetrievalResult, error)
}

// Store adds the write side used by Q&A administration and ingestion.
type Store interface {
	Searcher
	UpsertQA(ctx context.Context, pair commonModels.QAPair, vector []float32) error
	// UpdateQAPayload refreshes answer, audience and category while keeping the stored vector.
	UpdateQAPayload(ctx context.Context, pair commonModels.QAPair) error
	DeleteQA(ctx context.Context, id string) error
	UpsertChunks(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	DeleteDocumentChunks(ctx context.Context, documentId string) error
}

func CheckBatch(chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	for _, c := range chunks {
		if !c.Partition.IsValid() {
			return fmt.Errorf("chunk %s: invalid partition %q", c.ChunkId, c.Partition)
		}
	}
	return nil
}

// Cosine similarity of a and b; 0 when either is empty, zero or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
