package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()
	require.NoError(t, cfg.Validate())

	r := cfg.Retrieval
	assert.Equal(t, 0.75, r.QASearchFloor)
	assert.Equal(t, 0.85, r.InstantAnswer)
	assert.Equal(t, 0.4, r.DocSearchFloor)
	assert.Equal(t, 0.4, r.FallbackGate)
	assert.Equal(t, 0.6, r.AdvancedEffortGate)
	assert.Equal(t, 0.2, r.KeywordBoost)
	assert.Equal(t, 2, r.AudienceTopK)
	assert.Equal(t, 1, r.SharedTopK)
	assert.Equal(t, 5, r.MaxContextChunks)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.NotEmpty(t, cfg.Rephrase)
}

func TestLoad_FileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "academy.yml")
	yml := `
retrieval:
  instant_answer: 0.9
  audience_top_k: 3
vector:
  backend: memory
rate_limit:
  requests: 20
  window: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	t.Setenv("ACADEMY_RETRIEVAL__FALLBACK_GATE", "0.5")
	t.Setenv("ACADEMY_ADMIN_TOKEN", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.Retrieval.InstantAnswer)
	assert.Equal(t, 3, cfg.Retrieval.AudienceTopK)
	assert.Equal(t, 0.5, cfg.Retrieval.FallbackGate)
	// untouched keys keep defaults
	assert.Equal(t, 0.75, cfg.Retrieval.QASearchFloor)
	assert.Equal(t, "memory", cfg.Vector.Backend)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "secret", cfg.AdminToken)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRetrieval(), cfg.Retrieval)
}

func TestVectorBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		dsn     string
		want    string
	}{
		{"zero config runs in memory", "", "", "memory"},
		{"postgres configured uses pgvector", "", "postgres://academy@localhost/academy", "pgvector"},
		{"explicit choice wins", "qdrant", "postgres://academy@localhost/academy", "qdrant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Vector.Backend = tt.backend
			s.PostgresDSN = tt.dsn
			require.NoError(t, s.Validate())
			assert.Equal(t, tt.want, s.VectorBackend())
		})
	}
}

func TestLoad_ZeroConfigUsesMemoryVectors(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, "memory", cfg.VectorBackend())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"threshold above one", func(s *Settings) { s.Retrieval.InstantAnswer = 1.2 }},
		{"negative boost", func(s *Settings) { s.Retrieval.KeywordBoost = -0.1 }},
		{"qa floor above instant gate", func(s *Settings) { s.Retrieval.QASearchFloor = 0.9 }},
		{"zero context chunks", func(s *Settings) { s.Retrieval.MaxContextChunks = 0 }},
		{"unknown backend", func(s *Settings) { s.Vector.Backend = "faiss" }},
		{"unknown limiter", func(s *Settings) { s.RateLimit.Backend = "memcached" }},
		{"zero window", func(s *Settings) { s.RateLimit.Window = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}
