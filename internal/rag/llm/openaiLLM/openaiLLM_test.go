package openaiLLM

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testModels = llm.Models{Fast: "gpt-4o-mini", Advanced: "gpt-4o"}

func TestGenerate_UsesEffortModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   gotModel,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": " Practice starts at 5pm. "},
			}},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", testModels, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	res, err := c.Generate(context.Background(), llm.Request{System: "s", User: "u", Effort: answerModel.EffortAdvanced})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", gotModel)
	assert.Equal(t, "gpt-4o", res.Model)
	assert.Equal(t, "Practice starts at 5pm.", res.Text)
}

func TestStream_CollectsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, tok := range []string{"Bring ", "water."} {
			chunk := map[string]any{
				"id": "c", "object": "chat.completion.chunk", "created": 1, "model": "gpt-4o-mini",
				"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": tok}}},
			}
			b, _ := json.Marshal(chunk)
			_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
		}
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", testModels, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	var tokens []string
	res, err := c.Stream(context.Background(), llm.Request{User: "u"}, func(tok string) error {
		tokens = append(tokens, tok)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bring ", "water."}, tokens)
	assert.Equal(t, "Bring water.", res.Text)
	assert.Equal(t, "gpt-4o-mini", res.Model)
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", testModels, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	_, err := c.Generate(context.Background(), llm.Request{User: "u"})
	assert.Error(t, err)
}
