package openaiEmbedding

import (
	"context"
	"fmt"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	api   openai.Client
	model openai.EmbeddingModel
}

func NewOpenAIEmbedder(modelName string, apiKey string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	logger_i.NewLogger("openai_embedding").Info("OpenAI Embedding client created", "model", modelName)
	return &Client{
		api:   openai.NewClient(opts...),
		model: openai.EmbeddingModel(modelName),
	}
}

func (c *Client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)}, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}
	return c.embed(ctx, openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks}, len(chunks))
}

func (c *Client) embed(ctx context.Context, input openai.EmbeddingNewParamsInputUnion, want int) ([][]float32, error) {
	log := logger_i.FromContext(ctx, "openai_embedding")

	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      input,
		Model:      c.model,
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, err
	}
	if len(res.Data) != want {
		return nil, fmt.Errorf("openai embedding: got %d vectors for %d inputs", len(res.Data), want)
	}

	out := make([][]float32, want)
	for _, d := range res.Data {
		if d.Index < 0 || int(d.Index) >= want {
			return nil, fmt.Errorf("openai embedding: index %d out of range", d.Index)
		}
		out[d.Index] = toFloat32(d.Embedding)
	}
	return out, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
