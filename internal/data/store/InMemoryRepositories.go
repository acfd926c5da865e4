package store

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
)

// In-memory repositories back the service when no postgres DSN is configured.

type InMemoryQAStore struct {
	mu    sync.RWMutex
	pairs map[string]commonModels.QAPair
}

func InitInMemoryQAStore() *InMemoryQAStore {
	return &InMemoryQAStore{pairs: make(map[string]commonModels.QAPair)}
}

func (s *InMemoryQAStore) CreateQA(ctx context.Context, pair commonModels.QAPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pairs[pair.Id]; exists {
		return apperrors.New(apperrors.KindConflict, "qa pair already exists", nil)
	}
	s.pairs[pair.Id] = pair
	return nil
}

func (s *InMemoryQAStore) GetQA(ctx context.Context, id string) (commonModels.QAPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pair, ok := s.pairs[id]
	if !ok {
		return pair, apperrors.NotFound("qa pair not found")
	}
	return pair, nil
}

func (s *InMemoryQAStore) UpdateQA(ctx context.Context, pair commonModels.QAPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.pairs[pair.Id]
	if !ok {
		return apperrors.NotFound("qa pair not found")
	}
	pair.CreatedAt = existing.CreatedAt
	s.pairs[pair.Id] = pair
	return nil
}

func (s *InMemoryQAStore) DeleteQA(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pairs[id]; !ok {
		return apperrors.NotFound("qa pair not found")
	}
	delete(s.pairs, id)
	return nil
}

func (s *InMemoryQAStore) ListQA(ctx context.Context, audience commonModels.Audience) ([]commonModels.QAPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []commonModels.QAPair{}
	for _, p := range s.pairs {
		if audience == "" || p.Audience == audience {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id < out[j].Id
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type InMemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]commonModels.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{docs: make(map[string]commonModels.Document)}
}

func (s *InMemoryDocumentStore) CreateDocument(ctx context.Context, doc commonModels.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.IdempotencyKey == doc.IdempotencyKey {
			return apperrors.New(apperrors.KindConflict, "document already uploaded", nil)
		}
	}
	s.docs[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (commonModels.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return doc, apperrors.NotFound("document not found")
	}
	return doc, nil
}

func (s *InMemoryDocumentStore) FindByIdempotencyKey(ctx context.Context, key string) (commonModels.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.IdempotencyKey == key {
			return d, true, nil
		}
	}
	return commonModels.Document{}, false, nil
}

func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context, partition commonModels.Partition) ([]commonModels.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []commonModels.Document{}
	for _, d := range s.docs {
		if partition == "" || d.Partition == partition {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].Id < out[j].Id
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return apperrors.NotFound("document not found")
	}
	delete(s.docs, id)
	return nil
}

// InMemoryFeedbackStore is append-only.
type InMemoryFeedbackStore struct {
	mu       sync.Mutex
	feedback []commonModels.Feedback
}

func InitInMemoryFeedbackStore() *InMemoryFeedbackStore {
	return &InMemoryFeedbackStore{}
}

func (s *InMemoryFeedbackStore) SaveFeedback(ctx context.Context, fb commonModels.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, fb)
	return nil
}

func (s *InMemoryFeedbackStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.feedback)
}
