package memoryDB

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
)

type qaEntry struct {
	pair   commonModels.QAPair
	vector []float32
}

type chunkEntry struct {
	chunk  commonModels.DocChunk
	vector []float32
}

// Store is a brute-force in-process vector store for local runs and tests.
type Store struct {
	mu     sync.RWMutex
	qa     map[string]qaEntry
	chunks map[commonModels.Partition]map[string]chunkEntry
}

func New() *Store {
	return &Store{
		qa:     make(map[string]qaEntry),
		chunks: make(map[commonModels.Partition]map[string]chunkEntry),
	}
}

func (s *Store) SearchQA(_ context.Context, vector []float32, requester commonModels.Audience, topK int, minSimilarity float64) ([]answerModel.QAMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []answerModel.QAMatch
	for _, e := range s.qa {
		if !e.pair.Audience.VisibleTo(requester) {
			continue
		}
		sim := vectorDB.Cosine(vector, e.vector)
		if sim < minSimilarity {
			continue
		}
		hits = append(hits, answerModel.QAMatch{
			Id:         e.pair.Id,
			Question:   e.pair.Question,
			Answer:     e.pair.Answer,
			Category:   e.pair.Category,
			Audience:   e.pair.Audience,
			Similarity: sim,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity == hits[j].Similarity {
			return hits[i].Id < hits[j].Id
		}
		return hits[i].Similarity > hits[j].Similarity
	})
	return limit(hits, topK), nil
}

func (s *Store) SearchChunks(_ context.Context, vector []float32, partition commonModels.Partition, topK int, minSimilarity float64) ([]answerModel.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []answerModel.RetrievalResult
	for _, e := range s.chunks[partition] {
		sim := vectorDB.Cosine(vector, e.vector)
		if sim < minSimilarity {
			continue
		}
		hits = append(hits, answerModel.RetrievalResult{
			SourceId:   e.chunk.ChunkId,
			DocumentId: e.chunk.DocumentId,
			Content:    e.chunk.Content,
			Partition:  e.chunk.Partition,
			Similarity: sim,
			PageNumber: e.chunk.PageNumber,
			Origin:     answerModel.OriginDocument,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity == hits[j].Similarity {
			return hits[i].SourceId < hits[j].SourceId
		}
		return hits[i].Similarity > hits[j].Similarity
	})
	return limit(hits, topK), nil
}

func (s *Store) UpsertQA(_ context.Context, pair commonModels.QAPair, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qa[pair.Id] = qaEntry{pair: pair, vector: vector}
	return nil
}

func (s *Store) UpdateQAPayload(_ context.Context, pair commonModels.QAPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.qa[pair.Id]
	if !ok {
		return fmt.Errorf("qa vector %s not found", pair.Id)
	}
	e.pair = pair
	s.qa[pair.Id] = e
	return nil
}

func (s *Store) DeleteQA(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.qa, id)
	return nil
}

func (s *Store) UpsertChunks(_ context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if err := vectorDB.CheckBatch(chunks, vectors); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		part, ok := s.chunks[c.Partition]
		if !ok {
			part = make(map[string]chunkEntry)
			s.chunks[c.Partition] = part
		}
		part[c.ChunkId] = chunkEntry{chunk: c, vector: vectors[i]}
	}
	return nil
}

func (s *Store) DeleteDocumentChunks(_ context.Context, documentId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, part := range s.chunks {
		for id, e := range part {
			if e.chunk.DocumentId == documentId {
				delete(part, id)
			}
		}
	}
	return nil
}

func limit[T any](hits []T, topK int) []T {
	if topK > 0 && len(hits) > topK {
		return hits[:topK]
	}
	return hits
}
