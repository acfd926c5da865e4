package pgvectorDB

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store keeps searchable copies of Q&A pairs and document chunks in Postgres
// with pgvector cosine distance. Tables come from the postgres migrations.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type qaRow struct {
	Id         string  `db:"id"`
	Question   string  `db:"question"`
	Answer     string  `db:"answer"`
	Category   string  `db:"category"`
	Audience   string  `db:"audience"`
	Similarity float64 `db:"similarity"`
}

type chunkRow struct {
	ChunkId    string        `db:"chunk_id"`
	DocumentId string        `db:"document_id"`
	Partition  string        `db:"partition"`
	Content    string        `db:"content"`
	PageNumber sql.NullInt64 `db:"page_number"`
	Similarity float64       `db:"similarity"`
}

func (s *Store) SearchQA(ctx context.Context, vector []float32, requester commonModels.Audience, topK int, minSimilarity float64) ([]answerModel.QAMatch, error) {
	tags := requester.QATags()
	if len(tags) == 0 {
		return nil, fmt.Errorf("pgvector: %q cannot query the Q&A tier", requester)
	}
	visible := make([]string, len(tags))
	for i, t := range tags {
		visible[i] = string(t)
	}

	var rows []qaRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, question, answer, category, audience, 1 - (embedding <=> $1::vector) AS similarity
		FROM qa_vectors
		WHERE audience = ANY($2) AND 1 - (embedding <=> $1::vector) >= $3
		ORDER BY embedding <=> $1::vector, id
		LIMIT $4`,
		FormatVector(vector), pq.Array(visible), minSimilarity, topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector qa search: %w", err)
	}

	matches := make([]answerModel.QAMatch, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, answerModel.QAMatch{
			Id:         r.Id,
			Question:   r.Question,
			Answer:     r.Answer,
			Category:   r.Category,
			Audience:   commonModels.Audience(r.Audience),
			Similarity: r.Similarity,
		})
	}
	return matches, nil
}

func (s *Store) SearchChunks(ctx context.Context, vector []float32, partition commonModels.Partition, topK int, minSimilarity float64) ([]answerModel.RetrievalResult, error) {
	if !partition.IsValid() {
		return nil, fmt.Errorf("pgvector: invalid partition %q", partition)
	}

	var rows []chunkRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT chunk_id, document_id, partition, content, page_number, 1 - (embedding <=> $1::vector) AS similarity
		FROM document_chunks
		WHERE partition = $2 AND 1 - (embedding <=> $1::vector) >= $3
		ORDER BY embedding <=> $1::vector, chunk_id
		LIMIT $4`,
		FormatVector(vector), string(partition), minSimilarity, topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector chunk search: %w", err)
	}

	results := make([]answerModel.RetrievalResult, 0, len(rows))
	for _, r := range rows {
		res := answerModel.RetrievalResult{
			SourceId:   r.ChunkId,
			DocumentId: r.DocumentId,
			Content:    r.Content,
			Partition:  commonModels.Partition(r.Partition),
			Similarity: r.Similarity,
			Origin:     answerModel.OriginDocument,
		}
		if r.PageNumber.Valid {
			page := int(r.PageNumber.Int64)
			res.PageNumber = &page
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Store) UpsertQA(ctx context.Context, pair commonModels.QAPair, vector []float32) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO qa_vectors (id, question, answer, category, audience, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		ON CONFLICT (id) DO UPDATE
		SET question = EXCLUDED.question, answer = EXCLUDED.answer, category = EXCLUDED.category,
			audience = EXCLUDED.audience, embedding = EXCLUDED.embedding`,
		pair.Id, pair.Question, pair.Answer, pair.Category, string(pair.Audience), FormatVector(vector))
	if err != nil {
		return fmt.Errorf("pgvector qa upsert: %w", err)
	}
	return nil
}

func (s *Store) UpdateQAPayload(ctx context.Context, pair commonModels.QAPair) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE qa_vectors SET answer = $2, category = $3, audience = $4 WHERE id = $1`,
		pair.Id, pair.Answer, pair.Category, string(pair.Audience))
	if err != nil {
		return fmt.Errorf("pgvector qa payload update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("qa vector %s not found", pair.Id)
	}
	return nil
}

func (s *Store) DeleteQA(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM qa_vectors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("pgvector qa delete: %w", err)
	}
	return nil
}

func (s *Store) UpsertChunks(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if err := vectorDB.CheckBatch(chunks, vectors); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO document_chunks (chunk_id, document_id, partition, chunk_index, content, page_number, audio_timestamp, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector)
		ON CONFLICT (chunk_id) DO UPDATE
		SET content = EXCLUDED.content, page_number = EXCLUDED.page_number, embedding = EXCLUDED.embedding`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range chunks {
		_, err := stmt.ExecContext(ctx, c.ChunkId, c.DocumentId, string(c.Partition), c.ChunkIndex, c.Content,
			nullInt(c.PageNumber), nullString(c.AudioTimestamp), FormatVector(vectors[i]))
		if err != nil {
			return fmt.Errorf("pgvector chunk upsert %s: %w", c.ChunkId, err)
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteDocumentChunks(ctx context.Context, documentId string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentId); err != nil {
		return fmt.Errorf("pgvector chunk delete: %w", err)
	}
	return nil
}

// FormatVector renders a pgvector literal: [0.1,0.2,...].
func FormatVector(v []float32) string {
	var b strings.Builder
	b.Grow(len(v) * 10)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
