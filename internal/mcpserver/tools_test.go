package mcpserver

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAnswerer struct {
	OnAnswer func(q answerModel.Question) (answerModel.Answer, error)
	last     answerModel.Question
}

func (m *mockAnswerer) Answer(ctx context.Context, q answerModel.Question) (answerModel.Answer, error) {
	m.last = q
	return m.OnAnswer(q)
}

func TestHandleAsk(t *testing.T) {
	answerer := &mockAnswerer{OnAnswer: func(q answerModel.Question) (answerModel.Answer, error) {
		return answerModel.Answer{
			Text:       "TSA costs $150 per month.",
			Confidence: 0.91,
			Route:      answerModel.RouteInstant,
			Sources:    []answerModel.Source{{Type: answerModel.OriginQAPair, Question: "How much does TSA cost?", Similarity: 0.91}},
		}, nil
	}}
	s := NewServer(answerer)

	res, out, err := s.handleAsk(context.Background(), nil, AskInput{Question: "How much does TSA cost?"})
	require.NoError(t, err)
	assert.Equal(t, commonModels.AudienceParent, answerer.last.Audience)
	assert.Equal(t, "TSA costs $150 per month.", out.Answer)
	assert.Equal(t, "instant", out.Route)
	assert.Len(t, out.Sources, 1)

	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, out.Answer, text.Text)
}

func TestHandleAsk_FallbackHasEmptySources(t *testing.T) {
	s := NewServer(&mockAnswerer{OnAnswer: func(q answerModel.Question) (answerModel.Answer, error) {
		return answerModel.Answer{Text: "Please contact the front office.", Route: answerModel.RouteFallback}, nil
	}})
	_, out, err := s.handleAsk(context.Background(), nil, AskInput{Question: "xyzzy", Audience: "coach"})
	require.NoError(t, err)
	assert.NotNil(t, out.Sources)
	assert.Empty(t, out.Sources)
	assert.Zero(t, out.Confidence)
}

func TestHandleAsk_Errors(t *testing.T) {
	failing := &mockAnswerer{OnAnswer: func(q answerModel.Question) (answerModel.Answer, error) {
		return answerModel.Answer{}, errors.New("generation failed")
	}}
	s := NewServer(failing)

	_, _, err := s.handleAsk(context.Background(), nil, AskInput{Question: "q", Audience: "both"})
	assert.Error(t, err)

	_, _, err = s.handleAsk(context.Background(), nil, AskInput{Question: "q"})
	assert.EqualError(t, err, "generation failed")
}

func TestHandler_NotNil(t *testing.T) {
	s := NewServer(&mockAnswerer{})
	assert.NotNil(t, s.Handler())
}
