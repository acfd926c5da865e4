package mcpserver

import (
	"context"
	"net/http"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

type Answerer interface {
	Answer(ctx context.Context, q answerModel.Question) (answerModel.Answer, error)
}

// Server exposes the answer pipeline as MCP tools.
type Server struct {
	answerer Answerer
	server   *mcp.Server
}

func NewServer(answerer Answerer) *Server {
	s := &Server{
		answerer: answerer,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "academy-assistant",
			Version: Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Handler serves the streamable HTTP transport, mounted at /mcp.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
