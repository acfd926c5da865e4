package commonModels

import "context"

// Lookups by id return an apperrors NotFound error when the row is missing.

type QARepository interface {
	CreateQA(ctx context.Context, pair QAPair) error
	GetQA(ctx context.Context, id string) (QAPair, error)
	UpdateQA(ctx context.Context, pair QAPair) error
	DeleteQA(ctx context.Context, id string) error
	// ListQA returns every pair when audience is empty.
	ListQA(ctx context.Context, audience Audience) ([]QAPair, error)
}

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	FindByIdempotencyKey(ctx context.Context, key string) (Document, bool, error)
	// ListDocuments returns every document when partition is empty.
	ListDocuments(ctx context.Context, partition Partition) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type FeedbackRepository interface {
	SaveFeedback(ctx context.Context, fb Feedback) error
}
