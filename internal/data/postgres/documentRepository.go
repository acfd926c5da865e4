package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, filename, doc_type, partition, idempotency_key, uploaded_at`

const uniqueViolation = "23505"

func (r *DocumentRepository) CreateDocument(ctx context.Context, doc commonModels.Document) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (:id, :filename, :doc_type, :partition, :idempotency_key, :uploaded_at)`, doc)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.New(apperrors.KindConflict, "document already uploaded", err)
	}
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (commonModels.Document, error) {
	var doc commonModels.Document
	err := r.db.GetContext(ctx, &doc, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, apperrors.NotFound("document not found")
	}
	if err != nil {
		return doc, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) FindByIdempotencyKey(ctx context.Context, key string) (commonModels.Document, bool, error) {
	var doc commonModels.Document
	err := r.db.GetContext(ctx, &doc, `SELECT `+documentColumns+` FROM documents WHERE idempotency_key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, fmt.Errorf("find document: %w", err)
	}
	return doc, true, nil
}

func (r *DocumentRepository) ListDocuments(ctx context.Context, partition commonModels.Partition) ([]commonModels.Document, error) {
	docs := []commonModels.Document{}
	var err error
	if partition == "" {
		err = r.db.SelectContext(ctx, &docs, `SELECT `+documentColumns+` FROM documents ORDER BY uploaded_at DESC`)
	} else {
		err = r.db.SelectContext(ctx, &docs, `SELECT `+documentColumns+` FROM documents WHERE partition = $1 ORDER BY uploaded_at DESC`, partition)
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireRow(res, "document not found")
}
