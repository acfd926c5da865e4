package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var qaRowColumns = []string{"id", "question", "answer", "audience", "category", "created_at", "updated_at"}

func TestQARepository_GetQA(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQARepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM qa_pairs WHERE id = \$1`).
		WithArgs("qa-1").
		WillReturnRows(sqlmock.NewRows(qaRowColumns).
			AddRow("qa-1", "What is the tuition?", "$150/month", "both", "pricing", now, now))

	pair, err := repo.GetQA(context.Background(), "qa-1")
	require.NoError(t, err)
	assert.Equal(t, commonModels.AudienceBoth, pair.Audience)
	assert.Equal(t, "$150/month", pair.Answer)
}

func TestQARepository_GetQA_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQARepository(db)

	mock.ExpectQuery(`SELECT .+ FROM qa_pairs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(qaRowColumns))

	_, err := repo.GetQA(context.Background(), "missing")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestQARepository_CreateQA(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQARepository(db)
	now := time.Now().UTC()
	pair := commonModels.QAPair{Id: "qa-2", Question: "q", Answer: "a", Audience: commonModels.AudienceCoach, Category: "schedule", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(`INSERT INTO qa_pairs`).
		WithArgs("qa-2", "q", "a", commonModels.AudienceCoach, "schedule", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateQA(context.Background(), pair))
}

func TestQARepository_UpdateQA_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQARepository(db)

	mock.ExpectExec(`UPDATE qa_pairs`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateQA(context.Background(), commonModels.QAPair{Id: "gone"})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestQARepository_ListQA_FiltersByAudience(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQARepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM qa_pairs WHERE audience = \$1`).
		WithArgs(commonModels.AudienceParent).
		WillReturnRows(sqlmock.NewRows(qaRowColumns).
			AddRow("a", "q1", "a1", "parent", "", now, now).
			AddRow("b", "q2", "a2", "parent", "", now, now))

	pairs, err := repo.ListQA(context.Background(), commonModels.AudienceParent)
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
}

func TestQARepository_DeleteQA(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQARepository(db)

	mock.ExpectExec(`DELETE FROM qa_pairs WHERE id = \$1`).WithArgs("qa-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteQA(context.Background(), "qa-1"))
}

func TestDocumentRepository_FindByIdempotencyKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db)
	now := time.Now().UTC()
	cols := []string{"id", "filename", "doc_type", "partition", "idempotency_key", "uploaded_at"}

	mock.ExpectQuery(`FROM documents WHERE idempotency_key = \$1`).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("d1", "handbook.pdf", "handbook", "shared", "k1", now))
	mock.ExpectQuery(`FROM documents WHERE idempotency_key = \$1`).
		WithArgs("k2").
		WillReturnRows(sqlmock.NewRows(cols))

	doc, found, err := repo.FindByIdempotencyKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, commonModels.PartitionShared, doc.Partition)

	_, found, err = repo.FindByIdempotencyKey(context.Background(), "k2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDocumentRepository_CreateDocument_Conflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db)

	mock.ExpectExec(`INSERT INTO documents`).WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.CreateDocument(context.Background(), commonModels.Document{Id: "d1", Partition: commonModels.PartitionCoach})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestFeedbackRepository_SaveFeedback(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepository(db)

	fb := commonModels.Feedback{
		Id: "f1", Question: "q", Answer: "a", Audience: commonModels.AudienceParent, Feedback: commonModels.FeedbackUp,
		ChunkIds: []string{"c1"}, ChunkScores: []float64{0.7}, ChunkSources: []string{"shared"},
		SearchType: "document", ConfidenceScore: 0.7, ResponseTimeMs: 1200, ModelUsed: "gemini-2.5-flash-lite",
	}
	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs("f1", "q", "a", commonModels.AudienceParent, commonModels.FeedbackUp,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"document", 0.7, int64(1200), "gemini-2.5-flash-lite", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SaveFeedback(context.Background(), fb))
}

func TestFeedbackRepository_SaveFeedback_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepository(db)

	mock.ExpectExec(`INSERT INTO feedback`).WillReturnError(errors.New("connection reset"))
	assert.Error(t, repo.SaveFeedback(context.Background(), commonModels.Feedback{Id: "f2"}))
}
