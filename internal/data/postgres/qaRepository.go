package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/jmoiron/sqlx"
)

type QARepository struct {
	db *sqlx.DB
}

func NewQARepository(db *sqlx.DB) *QARepository {
	return &QARepository{db: db}
}

const qaColumns = `id, question, answer, audience, category, created_at, updated_at`

func (r *QARepository) CreateQA(ctx context.Context, pair commonModels.QAPair) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO qa_pairs (`+qaColumns+`)
		VALUES (:id, :question, :answer, :audience, :category, :created_at, :updated_at)`, pair)
	if err != nil {
		return fmt.Errorf("insert qa pair: %w", err)
	}
	return nil
}

func (r *QARepository) GetQA(ctx context.Context, id string) (commonModels.QAPair, error) {
	var pair commonModels.QAPair
	err := r.db.GetContext(ctx, &pair, `SELECT `+qaColumns+` FROM qa_pairs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return pair, apperrors.NotFound("qa pair not found")
	}
	if err != nil {
		return pair, fmt.Errorf("get qa pair: %w", err)
	}
	return pair, nil
}

func (r *QARepository) UpdateQA(ctx context.Context, pair commonModels.QAPair) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE qa_pairs
		SET question = :question, answer = :answer, audience = :audience, category = :category, updated_at = :updated_at
		WHERE id = :id`, pair)
	if err != nil {
		return fmt.Errorf("update qa pair: %w", err)
	}
	return requireRow(res, "qa pair not found")
}

func (r *QARepository) DeleteQA(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM qa_pairs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete qa pair: %w", err)
	}
	return requireRow(res, "qa pair not found")
}

func (r *QARepository) ListQA(ctx context.Context, audience commonModels.Audience) ([]commonModels.QAPair, error) {
	pairs := []commonModels.QAPair{}
	var err error
	if audience == "" {
		err = r.db.SelectContext(ctx, &pairs, `SELECT `+qaColumns+` FROM qa_pairs ORDER BY created_at`)
	} else {
		err = r.db.SelectContext(ctx, &pairs, `SELECT `+qaColumns+` FROM qa_pairs WHERE audience = $1 ORDER BY created_at`, audience)
	}
	if err != nil {
		return nil, fmt.Errorf("list qa pairs: %w", err)
	}
	return pairs, nil
}

func requireRow(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound(notFound)
	}
	return nil
}
