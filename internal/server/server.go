package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/handlers"
	"github.com/akolanti/AcademyAssistant/internal/middleware"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// NewRouter registers every route. handlers.Init and middleware.Init must run first.
func NewRouter(allowedOrigins []string, mcpHandler http.Handler) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r := utils.NewRouter(
		chimiddleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Client-Id", "X-Trace-Id", "Mcp-Session-Id"},
			ExposedHeaders: []string{"X-Trace-Id", "Mcp-Session-Id"},
			MaxAge:         300,
		}),
	)

	r.Router.Get("/healthz", middleware.Public(handlers.HealthHandler))
	if mcpHandler != nil {
		// MCP tool calls run the answer pipeline, so they share the chat rate limit
		r.Router.Handle("/mcp", middleware.Limited(mcpHandler.ServeHTTP))
	}

	r.Router.Route("/api", func(api chi.Router) {
		api.Post("/chat", middleware.Limited(handlers.ChatHandler))
		api.Post("/feedback", middleware.Public(handlers.FeedbackHandler))

		api.Route("/admin", func(admin chi.Router) {
			admin.Get("/qa", middleware.Admin(handlers.ListQAHandler))
			admin.Post("/qa", middleware.Admin(handlers.CreateQAHandler))
			admin.Get("/qa/{id}", middleware.Admin(handlers.GetQAHandler))
			admin.Put("/qa/{id}", middleware.Admin(handlers.UpdateQAHandler))
			admin.Delete("/qa/{id}", middleware.Admin(handlers.DeleteQAHandler))

			admin.Get("/documents", middleware.Admin(handlers.ListDocumentsHandler))
			admin.Post("/documents", middleware.Admin(handlers.UploadDocumentHandler))
			admin.Get("/documents/{id}", middleware.Admin(handlers.GetDocumentHandler))
			admin.Delete("/documents/{id}", middleware.Admin(handlers.DeleteDocumentHandler))

			admin.Get("/jobs/{id}", middleware.Admin(handlers.GetJobStatusHandler))
		})
	})
	return r.Router
}

// CreateServer must return before ShutDownHandler can receive a signal.
func CreateServer(listenAddr string, handler http.Handler) {
	_logger = logger_i.NewLogger("Server")

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
}

func ListenAndServe() {
	_logger.Info("Server is listening at", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", server.Addr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	log := logger_i.NewLogger("Server")
	log.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Could not shutdown gracefully", "error", err)
			}
		}

		//close workers, in-flight ingestion jobs finish first
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Graceful shutdown complete")
		close(shutdownParams.StopExecution)
	case <-ctx.Done():
		log.Error("Forced shutdown, timeout exceeded")
		os.Exit(1)
	}
}
