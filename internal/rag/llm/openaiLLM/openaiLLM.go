package openaiLLM

import (
	"context"
	"errors"
	"strings"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var errEmptyAnswer = errors.New("openai returned an empty answer")

type Client struct {
	api    openai.Client
	models llm.Models
}

func NewOpenAIClient(apiKey string, models llm.Models, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	logger_i.NewLogger("llm_openai").Info("OpenAI client created", "fast", models.Fast, "advanced", models.Advanced)
	return &Client{api: openai.NewClient(opts...), models: models}
}

func (c *Client) params(req llm.Request) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.models.For(req.Effort)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(float64(config.ModelTemperature)),
		MaxTokens:   openai.Int(int64(llm.MaxTokens(req.Effort))),
	}
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	model := c.models.For(req.Effort)
	resp, err := c.api.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		logger_i.FromContext(ctx, "llm_openai").Error("OpenAI generation failed", "model", model, "error", err)
		return llm.Result{Model: model}, err
	}
	if len(resp.Choices) == 0 {
		return llm.Result{Model: model}, errEmptyAnswer
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return llm.Result{Model: model}, errEmptyAnswer
	}
	return llm.Result{Text: text, Model: model}, nil
}

func (c *Client) Stream(ctx context.Context, req llm.Request, onToken func(token string) error) (llm.Result, error) {
	model := c.models.For(req.Effort)
	stream := c.api.Chat.Completions.NewStreaming(ctx, c.params(req))
	defer func() { _ = stream.Close() }()

	var full strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		token := chunk.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		full.WriteString(token)
		if err := onToken(token); err != nil {
			return llm.Result{Text: full.String(), Model: model}, err
		}
	}
	if err := stream.Err(); err != nil {
		logger_i.FromContext(ctx, "llm_openai").Error("OpenAI stream failed", "model", model, "error", err)
		return llm.Result{Text: full.String(), Model: model}, err
	}

	text := strings.TrimSpace(full.String())
	if text == "" {
		return llm.Result{Model: model}, errEmptyAnswer
	}
	return llm.Result{Text: text, Model: model}, nil
}
