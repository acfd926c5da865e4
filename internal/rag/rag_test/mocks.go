package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm"
)

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)

	mu    sync.Mutex
	calls int
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(chunks)), nil
}

func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockStore implements vectorDB.Store and records which searches ran.
type MockStore struct {
	OnSearchQA     func(ctx context.Context, vector []float32, requester commonModels.Audience, topK int, minSimilarity float64) ([]answerModel.QAMatch, error)
	OnSearchChunks func(ctx context.Context, vector []float32, partition commonModels.Partition, topK int, minSimilarity float64) ([]answerModel.RetrievalResult, error)
	OnUpsertChunks func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error

	mu               sync.Mutex
	qaRequesters     []commonModels.Audience
	searchPartitions []commonModels.Partition
}

func (m *MockStore) SearchQA(ctx context.Context, v []float32, requester commonModels.Audience, topK int, minSimilarity float64) ([]answerModel.QAMatch, error) {
	m.mu.Lock()
	m.qaRequesters = append(m.qaRequesters, requester)
	m.mu.Unlock()
	if m.OnSearchQA != nil {
		return m.OnSearchQA(ctx, v, requester, topK, minSimilarity)
	}
	return nil, nil
}

func (m *MockStore) SearchChunks(ctx context.Context, v []float32, partition commonModels.Partition, topK int, minSimilarity float64) ([]answerModel.RetrievalResult, error) {
	m.mu.Lock()
	m.searchPartitions = append(m.searchPartitions, partition)
	m.mu.Unlock()
	if m.OnSearchChunks != nil {
		return m.OnSearchChunks(ctx, v, partition, topK, minSimilarity)
	}
	return nil, nil
}

func (m *MockStore) UpsertQA(ctx context.Context, pair commonModels.QAPair, vector []float32) error {
	return nil
}

func (m *MockStore) UpdateQAPayload(ctx context.Context, pair commonModels.QAPair) error {
	return nil
}

func (m *MockStore) DeleteQA(ctx context.Context, id string) error {
	return nil
}

func (m *MockStore) UpsertChunks(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertChunks != nil {
		return m.OnUpsertChunks(ctx, chunks, vectors)
	}
	return nil
}

func (m *MockStore) DeleteDocumentChunks(ctx context.Context, documentId string) error {
	return nil
}

func (m *MockStore) SearchedPartitions() []commonModels.Partition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]commonModels.Partition(nil), m.searchPartitions...)
}

func (m *MockStore) QARequesters() []commonModels.Audience {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]commonModels.Audience(nil), m.qaRequesters...)
}

// MockSynth implements rag.Synthesizer
type MockSynth struct {
	OnSynthesize func(ctx context.Context, question string, audience commonModels.Audience, passages []answerModel.RetrievalResult, effort answerModel.EffortTier, onToken func(string) error) (llm.Result, error)

	Calls      int
	LastEffort answerModel.EffortTier
	Passages   []answerModel.RetrievalResult
}

func (m *MockSynth) Synthesize(ctx context.Context, question string, audience commonModels.Audience, passages []answerModel.RetrievalResult, effort answerModel.EffortTier, onToken func(string) error) (llm.Result, error) {
	m.Calls++
	m.LastEffort = effort
	m.Passages = passages
	if m.OnSynthesize != nil {
		return m.OnSynthesize(ctx, question, audience, passages, effort, onToken)
	}
	return llm.Result{Text: "mocked synthesized answer", Model: "mock-fast"}, nil
}
