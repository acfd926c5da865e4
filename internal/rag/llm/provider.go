package llm

import (
	"context"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
)

// Request is one synthesis call. Effort picks the model tier.
type Request struct {
	System string
	User   string
	Effort answerModel.EffortTier
}

type Result struct {
	Text  string
	Model string
}

type Provider interface {
	Generate(ctx context.Context, req Request) (Result, error)
	// Stream hands each text fragment to onToken as it arrives and returns the full text.
	Stream(ctx context.Context, req Request, onToken func(token string) error) (Result, error)
}

// Models maps effort tiers to provider model names.
type Models struct {
	Fast     string
	Advanced string
}

func (m Models) For(effort answerModel.EffortTier) string {
	if effort == answerModel.EffortAdvanced && m.Advanced != "" {
		return m.Advanced
	}
	return m.Fast
}

func MaxTokens(effort answerModel.EffortTier) int {
	if effort == answerModel.EffortAdvanced {
		return config.AdvancedMaxTokens
	}
	return config.FastMaxTokens
}
