package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"google.golang.org/genai"
)

var errEmptyAnswer = errors.New("gemini returned an empty answer")

type llmClient struct {
	client *genai.Client
	models llm.Models
}

func NewGeminiClient(ctx context.Context, apikey string, models llm.Models) (llm.Provider, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger_i.NewLogger("llm_gemini").Error("Error creating Gemini client", "error", err)
		return nil, err
	}
	logger_i.NewLogger("llm_gemini").Info("Gemini client created", "fast", models.Fast, "advanced", models.Advanced)
	return &llmClient{client: c, models: models}, nil
}

func (c *llmClient) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	log := logger_i.FromContext(ctx, "llm_gemini")
	model := c.models.For(req.Effort)

	result, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.User), contentConfig(req))
	if err != nil {
		log.Error("Gemini generation failed", "model", model, "error", err)
		return llm.Result{Model: model}, err
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return llm.Result{Model: model}, errEmptyAnswer
	}
	return llm.Result{Text: text, Model: model}, nil
}

func (c *llmClient) Stream(ctx context.Context, req llm.Request, onToken func(token string) error) (llm.Result, error) {
	log := logger_i.FromContext(ctx, "llm_gemini")
	model := c.models.For(req.Effort)

	var full strings.Builder
	for chunk, err := range c.client.Models.GenerateContentStream(ctx, model, genai.Text(req.User), contentConfig(req)) {
		if err != nil {
			log.Error("Gemini stream failed", "model", model, "error", err)
			return llm.Result{Text: full.String(), Model: model}, err
		}
		token := chunk.Text()
		if token == "" {
			continue
		}
		full.WriteString(token)
		if err := onToken(token); err != nil {
			return llm.Result{Text: full.String(), Model: model}, err
		}
	}

	text := strings.TrimSpace(full.String())
	if text == "" {
		return llm.Result{Model: model}, errEmptyAnswer
	}
	return llm.Result{Text: text, Model: model}, nil
}

func contentConfig(req llm.Request) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
		Temperature:     genai.Ptr(config.ModelTemperature),
		MaxOutputTokens: int32(llm.MaxTokens(req.Effort)),
	}
}
