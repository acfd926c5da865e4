package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

// Input is what a client reports about an answer it received.
type Input struct {
	Question        string
	Answer          string
	Audience        string
	Feedback        string
	ChunkIds        []string
	ChunkScores     []float64
	ChunkSources    []string
	SearchType      string
	ConfidenceScore float64
	ResponseTimeMs  int64
	ModelUsed       string
}

type Service struct {
	repo commonModels.FeedbackRepository
	now  func() time.Time
}

func NewService(repo commonModels.FeedbackRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record appends one feedback entry. Entries are never updated or read back.
func (s *Service) Record(ctx context.Context, in Input) (commonModels.Feedback, error) {
	kind := commonModels.FeedbackKind(in.Feedback)
	if kind != commonModels.FeedbackUp && kind != commonModels.FeedbackDown {
		return commonModels.Feedback{}, apperrors.Validation("feedback must be up or down")
	}
	if strings.TrimSpace(in.Question) == "" {
		return commonModels.Feedback{}, apperrors.Validation("question is required")
	}
	audience, err := commonModels.ParseRequester(in.Audience)
	if err != nil {
		return commonModels.Feedback{}, apperrors.Validation(err.Error())
	}
	if len(in.ChunkScores) > 0 && len(in.ChunkScores) != len(in.ChunkIds) {
		return commonModels.Feedback{}, apperrors.Validation("chunk_scores must align with chunk_ids")
	}

	fb := commonModels.Feedback{
		Id:              utils.GetNewUUID(),
		Question:        strings.TrimSpace(in.Question),
		Answer:          truncate(in.Answer, config.FeedbackAnswerLimit),
		Audience:        audience,
		Feedback:        kind,
		ChunkIds:        in.ChunkIds,
		ChunkScores:     in.ChunkScores,
		ChunkSources:    in.ChunkSources,
		SearchType:      in.SearchType,
		ConfidenceScore: in.ConfidenceScore,
		ResponseTimeMs:  in.ResponseTimeMs,
		ModelUsed:       in.ModelUsed,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.SaveFeedback(ctx, fb); err != nil {
		return commonModels.Feedback{}, apperrors.Upstream("could not save feedback", err)
	}
	logger_i.FromContext(ctx, "feedback").Info("Recorded feedback", "feedback", kind, "searchType", fb.SearchType)
	return fb, nil
}

// truncate cuts on rune boundaries.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
