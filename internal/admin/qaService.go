package admin

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/rag/embedding"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

// QAInput is the editable part of a Q&A pair.
type QAInput struct {
	Question string
	Answer   string
	Audience commonModels.Audience
	Category string
}

func (in QAInput) validate() error {
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return apperrors.Validation("question and answer are required")
	}
	if !in.Audience.IsValidTag() {
		return apperrors.Validation("audience must be parent, coach or both")
	}
	return nil
}

// QAService keeps the metadata repository and the vector store in step.
type QAService struct {
	repo     commonModels.QARepository
	store    vectorDB.Store
	embedder embedding.Embedder
	now      func() time.Time
}

func NewQAService(repo commonModels.QARepository, store vectorDB.Store, embedder embedding.Embedder) *QAService {
	return &QAService{repo: repo, store: store, embedder: embedder, now: time.Now}
}

func (s *QAService) Create(ctx context.Context, in QAInput) (commonModels.QAPair, error) {
	if err := in.validate(); err != nil {
		return commonModels.QAPair{}, err
	}
	log := logger_i.FromContext(ctx, "qa_admin")

	vector, err := s.embedder.GetEmbedding(ctx, strings.TrimSpace(in.Question))
	if err != nil {
		return commonModels.QAPair{}, apperrors.Upstream("could not embed question", err)
	}

	now := s.now().UTC()
	pair := commonModels.QAPair{
		Id:        utils.GetNewUUID(),
		Question:  strings.TrimSpace(in.Question),
		Answer:    strings.TrimSpace(in.Answer),
		Audience:  in.Audience,
		Category:  in.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateQA(ctx, pair); err != nil {
		return commonModels.QAPair{}, err
	}
	if err := s.store.UpsertQA(ctx, pair, vector); err != nil {
		// a pair without a vector is invisible to search, so drop the row too
		if delErr := s.repo.DeleteQA(ctx, pair.Id); delErr != nil {
			log.Error("Rollback of qa pair failed", "id", pair.Id, "error", delErr)
		}
		return commonModels.QAPair{}, apperrors.Upstream("could not store qa vector", err)
	}
	log.Info("Created qa pair", "id", pair.Id, "audience", pair.Audience)
	return pair, nil
}

func (s *QAService) Get(ctx context.Context, id string) (commonModels.QAPair, error) {
	return s.repo.GetQA(ctx, id)
}

// List returns every pair when audience is empty.
func (s *QAService) List(ctx context.Context, audience commonModels.Audience) ([]commonModels.QAPair, error) {
	if audience != "" && !audience.IsValidTag() {
		return nil, apperrors.Validation("audience must be parent, coach or both")
	}
	return s.repo.ListQA(ctx, audience)
}

// Update re-embeds only when the question text changed.
func (s *QAService) Update(ctx context.Context, id string, in QAInput) (commonModels.QAPair, error) {
	if err := in.validate(); err != nil {
		return commonModels.QAPair{}, err
	}
	existing, err := s.repo.GetQA(ctx, id)
	if err != nil {
		return commonModels.QAPair{}, err
	}
	log := logger_i.FromContext(ctx, "qa_admin").With("id", id)

	updated := existing
	updated.Question = strings.TrimSpace(in.Question)
	updated.Answer = strings.TrimSpace(in.Answer)
	updated.Audience = in.Audience
	updated.Category = in.Category
	updated.UpdatedAt = s.now().UTC()

	if updated.Question != existing.Question {
		vector, err := s.embedder.GetEmbedding(ctx, updated.Question)
		if err != nil {
			return commonModels.QAPair{}, apperrors.Upstream("could not embed question", err)
		}
		if err := s.store.UpsertQA(ctx, updated, vector); err != nil {
			return commonModels.QAPair{}, apperrors.Upstream("could not store qa vector", err)
		}
		log.Debug("Question changed, re-embedded")
	} else if err := s.store.UpdateQAPayload(ctx, updated); err != nil {
		return commonModels.QAPair{}, apperrors.Upstream("could not update qa vector payload", err)
	}

	if err := s.repo.UpdateQA(ctx, updated); err != nil {
		return commonModels.QAPair{}, err
	}
	log.Info("Updated qa pair")
	return updated, nil
}

func (s *QAService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetQA(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteQA(ctx, id); err != nil {
		return apperrors.Upstream("could not delete qa vector", err)
	}
	if err := s.repo.DeleteQA(ctx, id); err != nil {
		return err
	}
	logger_i.FromContext(ctx, "qa_admin").Info("Deleted qa pair", "id", id)
	return nil
}
