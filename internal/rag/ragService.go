package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/metrics"
	"github.com/akolanti/AcademyAssistant/internal/rag/embedding"
	"github.com/akolanti/AcademyAssistant/internal/rag/fallback"
	"github.com/akolanti/AcademyAssistant/internal/rag/ingest"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm"
	"github.com/akolanti/AcademyAssistant/internal/rag/query"
	"github.com/akolanti/AcademyAssistant/internal/rag/synth"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

/*
The answer pipeline is a small state machine:

	START -> EXPAND -> QA_SEARCH -> INSTANT
	                             -> DOC_SEARCH -> SYNTHESIZE
	                                           -> FALLBACK

Handlers and the MCP tool only see Service. The private struct holds the
collaborators so tests can swap any of them for mocks.
*/

// Service is what handlers and workers call.
type Service interface {
	Answer(ctx context.Context, q answerModel.Question) (answerModel.Answer, error)
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

// Synthesizer phrases an answer from ranked passages.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, audience commonModels.Audience, passages []answerModel.RetrievalResult, effort answerModel.EffortTier, onToken func(string) error) (llm.Result, error)
}

type service struct {
	expander *query.Expander
	embedder embedding.Embedder
	store    vectorDB.Store
	synth    Synthesizer
	cfg      config.Retrieval
}

func NewService(expander *query.Expander, embedder embedding.Embedder, store vectorDB.Store, synthesizer Synthesizer, cfg config.Retrieval) Service {
	return &service{
		expander: expander,
		embedder: embedder,
		store:    store,
		synth:    synthesizer,
		cfg:      cfg,
	}
}

func (s *service) Answer(ctx context.Context, q answerModel.Question) (answerModel.Answer, error) {
	start := time.Now()
	question := strings.TrimSpace(q.Text)
	if question == "" {
		return answerModel.Answer{}, apperrors.Validation("question is required")
	}
	if !q.Audience.IsRequester() {
		return answerModel.Answer{}, apperrors.Validation("audience must be parent or coach")
	}

	log := logger_i.FromContext(ctx, "rag_service").With("audience", q.Audience)
	processContext, cancel := context.WithTimeout(ctx, config.AnswerTimeout)
	defer cancel()

	ans := answerModel.Answer{
		Id:       utils.GetNewUUID(),
		Question: question,
		Audience: q.Audience,
	}

	// EXPAND
	variations := s.expander.Expand(question)
	log.Debug("Answer", "stage", answerModel.StageExpand, "variations", len(variations))

	// QA_SEARCH
	vectors := s.embedVariations(processContext, log, variations)
	if best, ok := s.bestQAMatch(processContext, log, vectors, q.Audience); ok && best.Similarity >= s.cfg.InstantAnswer {
		ans = instantAnswer(ans, best)
		log.Debug("Answer", "stage", answerModel.StageInstant, "pairId", best.Id, "similarity", best.Similarity)
		return s.finish(log, ans, q.OnToken, start), nil
	}

	// DOC_SEARCH
	ranked := s.rankPassages(question, s.searchDocuments(processContext, log, vectors, q.Audience))
	topConfidence := 0.0
	if len(ranked) > 0 {
		topConfidence = ranked[0].BoostedSimilarity
	}

	if topConfidence < s.cfg.FallbackGate {
		topic, message := fallback.For(question)
		ans.Route = answerModel.RouteFallback
		ans.Text = message
		ans.FallbackTopic = string(topic)
		ans.Sources = []answerModel.Source{}
		log.Debug("Answer", "stage", answerModel.StageFallback, "topic", topic, "topConfidence", topConfidence)
		return s.finish(log, ans, q.OnToken, start), nil
	}

	// SYNTHESIZE
	ans.Effort = synth.Effort(len(ranked), topConfidence, s.cfg.AdvancedChunkCount, s.cfg.AdvancedEffortGate)
	log.Debug("Answer", "stage", answerModel.StageSynthesize, "passages", len(ranked), "effort", ans.Effort)

	genStart := time.Now()
	res, err := s.synth.Synthesize(processContext, question, q.Audience, ranked, ans.Effort, q.OnToken)
	metrics.CaptureExecutionMetrics("generation", time.Since(genStart))
	if err != nil {
		log.Error("Answer generation failed", "error", err, "effort", ans.Effort)
		metrics.CaptureJobMetrics("error", time.Since(start))
		return answerModel.Answer{}, apperrors.Generation(err)
	}

	ans.Route = answerModel.RouteSynthesize
	ans.Text = res.Text
	ans.ModelUsed = res.Model
	ans.Confidence = topConfidence
	ans.Sources = documentSources(ranked)
	// already streamed by the provider
	return s.finish(log, ans, nil, start), nil
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureJobMetrics("ingestion", time.Since(start)) }()

	ingestContext, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	j := ingest.ProcessDocumentIngestion(ingestContext, job, s.embedder, s.store)
	if j.Status != jobModel.JobStatusComplete {
		logger_i.FromContext(ctx, "rag_service").Error("INGESTION_FAILURE", "jobId", j.Id, "step", j.CurrentStep, "message", j.Error.Message)
	}
	return j
}
