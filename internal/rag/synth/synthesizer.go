package synth

import (
	"context"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/rag/llm"
)

// Synthesizer turns ranked passages into an answer through a model provider.
type Synthesizer struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize streams when onToken is set, otherwise makes a single call.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, audience commonModels.Audience, passages []answerModel.RetrievalResult, effort answerModel.EffortTier, onToken func(string) error) (llm.Result, error) {
	req := llm.Request{
		System: SystemPrompt(audience),
		User:   UserPrompt(question, passages),
		Effort: effort,
	}
	if onToken != nil {
		return s.provider.Stream(ctx, req, onToken)
	}
	return s.provider.Generate(ctx, req)
}

// Effort picks the advanced tier for many passages or weak evidence.
func Effort(passageCount int, topConfidence float64, advancedChunkCount int, advancedGate float64) answerModel.EffortTier {
	if passageCount > advancedChunkCount || topConfidence < advancedGate {
		return answerModel.EffortAdvanced
	}
	return answerModel.EffortFast
}
