package mcpserver

import (
	"context"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AskInput struct {
	Question string `json:"question" jsonschema:"the question a parent or coach is asking"`
	Audience string `json:"audience,omitempty" jsonschema:"parent or coach (default parent)"`
}

type AskOutput struct {
	Answer     string               `json:"answer"`
	Confidence float64              `json:"confidence"`
	Route      string               `json:"route"`
	Sources    []answerModel.Source `json:"sources"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_academy",
		Description: "Answer a question about the academy from its Q&A pairs and documents",
	}, s.handleAsk)
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	audience, err := commonModels.ParseRequester(input.Audience)
	if err != nil {
		return nil, AskOutput{}, err
	}

	ans, err := s.answerer.Answer(ctx, answerModel.Question{Text: input.Question, Audience: audience})
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := ans.Sources
	if sources == nil {
		sources = []answerModel.Source{}
	}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: ans.Text}},
	}
	return result, AskOutput{
		Answer:     ans.Text,
		Confidence: ans.Confidence,
		Route:      string(ans.Route),
		Sources:    sources,
	}, nil
}
