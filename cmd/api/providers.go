package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/data/postgres"
	"github.com/akolanti/AcademyAssistant/internal/data/redisStore"
	"github.com/akolanti/AcademyAssistant/internal/data/store"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/rag/embedding"
	"github.com/akolanti/AcademyAssistant/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/AcademyAssistant/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm/gemini"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm/openaiLLM"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB/pgvectorDB"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/AcademyAssistant/internal/ratelimit"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/jmoiron/sqlx"
)

type repositories struct {
	qa        commonModels.QARepository
	documents commonModels.DocumentRepository
	feedback  commonModels.FeedbackRepository
}

// buildRepositories uses postgres when a DSN is configured, memory otherwise.
func buildRepositories(ctx context.Context, s *config.Settings) (repositories, *sqlx.DB, error) {
	if s.PostgresDSN == "" {
		logger_i.NewLogger("main").Warn("No postgres DSN configured, metadata is kept in memory")
		return repositories{
			qa:        store.InitInMemoryQAStore(),
			documents: store.InitInMemoryDocumentStore(),
			feedback:  store.InitInMemoryFeedbackStore(),
		}, nil, nil
	}

	db, err := postgres.Open(ctx, s.PostgresDSN)
	if err != nil {
		return repositories{}, nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		return repositories{}, nil, err
	}
	return repositories{
		qa:        postgres.NewQARepository(db),
		documents: postgres.NewDocumentRepository(db),
		feedback:  postgres.NewFeedbackRepository(db),
	}, db, nil
}

func buildVectorStore(ctx context.Context, s *config.Settings, db *sqlx.DB) (vectorDB.Store, error) {
	switch s.VectorBackend() {
	case "pgvector":
		if db == nil {
			return nil, errors.New("vector.backend pgvector requires postgres_dsn")
		}
		return pgvectorDB.New(db), nil
	case "qdrant":
		return qdrantDB.NewQdrantStore(ctx, s.Vector.QdrantHost, s.Vector.QdrantPort)
	case "memory":
		return memoryDB.New(), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", s.VectorBackend())
	}
}

func buildEmbedder(ctx context.Context, s *config.Settings) (embedding.Embedder, error) {
	var inner embedding.Embedder
	switch s.Embedding.Provider {
	case "google":
		model := s.Embedding.Model
		if model == "" {
			model = config.GoogleEmbeddingModel
		}
		client, err := googleEmbedding.NewGoogleEmbedder(ctx, model, s.Embedding.APIKey)
		if err != nil {
			return nil, err
		}
		inner = client
	case "openai":
		model := s.Embedding.Model
		if model == "" || model == config.GoogleEmbeddingModel {
			model = config.OpenAIEmbeddingModel
		}
		inner = openaiEmbedding.NewOpenAIEmbedder(model, s.Embedding.APIKey)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", s.Embedding.Provider)
	}
	return embedding.NewCached(inner, config.EmbeddingCacheSize)
}

func buildLLM(ctx context.Context, s *config.Settings) (llm.Provider, error) {
	models := llm.Models{Fast: s.LLM.FastModel, Advanced: s.LLM.AdvancedModel}
	var inner llm.Provider
	switch s.LLM.Provider {
	case "gemini":
		client, err := gemini.NewGeminiClient(ctx, s.LLM.APIKey, models)
		if err != nil {
			return nil, err
		}
		inner = client
	case "openai":
		if models.Fast == config.GeminiFastModel {
			models = llm.Models{Fast: config.OpenAIFastModel, Advanced: config.OpenAIAdvancedModel}
		}
		inner = openaiLLM.NewOpenAIClient(s.LLM.APIKey, models)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.LLM.Provider)
	}
	return llm.NewBreaker(s.LLM.Provider, inner, llm.DefaultBreakerConfig()), nil
}

func buildLimiter(ctx context.Context, s *config.Settings, opts redisStore.Options) (ratelimit.Limiter, error) {
	if s.RateLimit.Backend == "redis" {
		rateRedis, err := redisStore.GetRedisStore(ctx, opts, config.RedisRateStore)
		if err == nil {
			return ratelimit.NewRedisLimiter(rateRedis, s.RateLimit.Requests, s.RateLimit.Window), nil
		}
		logger_i.NewLogger("main").Error("Redis rate store is offline, using in-memory limiter", "error", err)
	}
	return ratelimit.NewMemoryLimiter(s.RateLimit.Requests, s.RateLimit.Window)
}
