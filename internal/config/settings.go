package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ACADEMY_"

// Settings are the runtime-tunable values. Compile-time defaults live in environmentVariables.go.
type Settings struct {
	Prod     bool   `koanf:"prod"`
	LogLevel string `koanf:"log_level"`

	Retrieval Retrieval      `koanf:"retrieval"`
	Rephrase  []RephraseRule `koanf:"rephrase"`

	RateLimit RateLimit `koanf:"rate_limit"`

	Embedding Embedding `koanf:"embedding"`
	LLM       LLM       `koanf:"llm"`
	Vector    Vector    `koanf:"vector"`

	PostgresDSN string `koanf:"postgres_dsn"`
	RedisAddr   string `koanf:"redis_addr"`
	// RedisPassword may be empty for local redis
	RedisPassword string `koanf:"redis_password"`

	AdminToken     string   `koanf:"admin_token"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Retrieval holds every threshold the answer pipeline routes on.
type Retrieval struct {
	QASearchFloor      float64 `koanf:"qa_search_floor"`
	InstantAnswer      float64 `koanf:"instant_answer"`
	DocSearchFloor     float64 `koanf:"doc_search_floor"`
	FallbackGate       float64 `koanf:"fallback_gate"`
	AdvancedEffortGate float64 `koanf:"advanced_effort_gate"`
	KeywordBoost       float64 `koanf:"keyword_boost"`
	AudienceTopK       int     `koanf:"audience_top_k"`
	SharedTopK         int     `koanf:"shared_top_k"`
	MaxContextChunks   int     `koanf:"max_context_chunks"`
	AdvancedChunkCount int     `koanf:"advanced_chunk_count"`
	MaxVariations      int     `koanf:"max_variations"`
	MaxParallelCalls   int     `koanf:"max_parallel_calls"`
}

// RephraseRule is one row of the query expansion table. Pattern is a case-insensitive regexp.
type RephraseRule struct {
	Pattern     string `koanf:"pattern"`
	Replacement string `koanf:"replacement"`
}

type RateLimit struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	// Backend is "memory" or "redis"
	Backend string `koanf:"backend"`
}

type Embedding struct {
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
}

type LLM struct {
	Provider      string `koanf:"provider"`
	FastModel     string `koanf:"fast_model"`
	AdvancedModel string `koanf:"advanced_model"`
	APIKey        string `koanf:"api_key"`
}

type Vector struct {
	// Backend is "pgvector", "qdrant" or "memory". Empty picks pgvector when
	// postgres_dsn is set and memory otherwise.
	Backend    string `koanf:"backend"`
	QdrantHost string `koanf:"qdrant_host"`
	QdrantPort int    `koanf:"qdrant_port"`
}

func DefaultSettings() *Settings {
	return &Settings{
		LogLevel:  "debug",
		Retrieval: DefaultRetrieval(),
		Rephrase:  DefaultRephraseRules(),
		RateLimit: RateLimit{Requests: 10, Window: time.Minute, Backend: "memory"},
		Embedding: Embedding{Provider: "google", Model: GoogleEmbeddingModel},
		LLM:       LLM{Provider: "gemini", FastModel: GeminiFastModel, AdvancedModel: GeminiAdvancedModel},
		Vector:    Vector{QdrantHost: QdrantHost, QdrantPort: QdrantGrpcPort},
		RedisAddr: RedisAddr,
	}
}

func DefaultRetrieval() Retrieval {
	return Retrieval{
		QASearchFloor:      0.75,
		InstantAnswer:      0.85,
		DocSearchFloor:     0.4,
		FallbackGate:       0.4,
		AdvancedEffortGate: 0.6,
		KeywordBoost:       0.2,
		AudienceTopK:       2,
		SharedTopK:         1,
		MaxContextChunks:   5,
		AdvancedChunkCount: 3,
		MaxVariations:      5,
		MaxParallelCalls:   8,
	}
}

func DefaultRephraseRules() []RephraseRule {
	return []RephraseRule{
		{Pattern: `^how much (?:does|do|is|are) (.+?) cost$`, Replacement: "what is the cost of $1"},
		{Pattern: `^how much is (.+)$`, Replacement: "what is the cost of $1"},
		{Pattern: `\bwhat's\b`, Replacement: "what is"},
		{Pattern: `\bwhen's\b`, Replacement: "when is"},
		{Pattern: `\bwhere's\b`, Replacement: "where is"},
		{Pattern: `^tell me about (.+)$`, Replacement: "what is $1"},
		{Pattern: `^(?:can|could) you explain (.+)$`, Replacement: "what is $1"},
	}
}

// Load reads an optional .env, then the YAML file at path (if present), then ACADEMY_* env vars.
// Nested keys use a double underscore: ACADEMY_RETRIEVAL__INSTANT_ANSWER=0.9
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")
	cfg := DefaultSettings()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// VectorBackend resolves an empty vector.backend from the metadata store choice.
func (s *Settings) VectorBackend() string {
	if s.Vector.Backend != "" {
		return s.Vector.Backend
	}
	if s.PostgresDSN != "" {
		return "pgvector"
	}
	return "memory"
}

// Validate rejects thresholds outside [0,1] and non-positive limits.
func (s *Settings) Validate() error {
	r := s.Retrieval
	unit := map[string]float64{
		"qa_search_floor":      r.QASearchFloor,
		"instant_answer":       r.InstantAnswer,
		"doc_search_floor":     r.DocSearchFloor,
		"fallback_gate":        r.FallbackGate,
		"advanced_effort_gate": r.AdvancedEffortGate,
		"keyword_boost":        r.KeywordBoost,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("retrieval.%s must be within [0,1], got %v", name, v)
		}
	}
	if r.QASearchFloor > r.InstantAnswer {
		return fmt.Errorf("retrieval.qa_search_floor (%v) must not exceed instant_answer (%v)", r.QASearchFloor, r.InstantAnswer)
	}
	if r.AudienceTopK < 1 || r.SharedTopK < 0 || r.MaxContextChunks < 1 || r.MaxVariations < 1 || r.MaxParallelCalls < 1 {
		return errors.New("retrieval top-k, max_context_chunks, max_variations and max_parallel_calls must be positive")
	}
	if s.RateLimit.Requests < 1 || s.RateLimit.Window <= 0 {
		return errors.New("rate_limit.requests and rate_limit.window must be positive")
	}
	switch s.Vector.Backend {
	case "", "pgvector", "qdrant", "memory":
	default:
		return fmt.Errorf("invalid vector.backend %q: must be one of pgvector, qdrant, memory", s.Vector.Backend)
	}
	switch s.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid rate_limit.backend %q: must be memory or redis", s.RateLimit.Backend)
	}
	return nil
}
