package postgres

import (
	"context"
	"fmt"

	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type FeedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) SaveFeedback(ctx context.Context, fb commonModels.Feedback) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedback (id, question, answer, audience, feedback, chunk_ids, chunk_scores, chunk_sources,
			search_type, confidence_score, response_time_ms, model_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		fb.Id, fb.Question, fb.Answer, fb.Audience, fb.Feedback,
		pq.Array(fb.ChunkIds), pq.Array(fb.ChunkScores), pq.Array(fb.ChunkSources),
		fb.SearchType, fb.ConfidenceScore, fb.ResponseTimeMs, fb.ModelUsed, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}
