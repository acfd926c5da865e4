package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/AcademyAssistant/internal/admin"
	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/data/redisStore"
	"github.com/akolanti/AcademyAssistant/internal/data/store"
	jobmodel "github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/feedback"
	"github.com/akolanti/AcademyAssistant/internal/handlers"
	"github.com/akolanti/AcademyAssistant/internal/job"
	"github.com/akolanti/AcademyAssistant/internal/mcpserver"
	"github.com/akolanti/AcademyAssistant/internal/middleware"
	"github.com/akolanti/AcademyAssistant/internal/rag"
	"github.com/akolanti/AcademyAssistant/internal/rag/query"
	"github.com/akolanti/AcademyAssistant/internal/rag/synth"
	"github.com/akolanti/AcademyAssistant/internal/server"
	"github.com/akolanti/AcademyAssistant/internal/worker"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

var (
	listenAddr        string
	configPath        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&configPath, "config", "config.yaml", "path to the YAML settings file")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		logger_i.Init(false, "info")
		logger_i.NewLogger("main").Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger_i.Init(settings.Prod, settings.LogLevel)
	var logger = logger_i.NewLogger("main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	repos, db, err := buildRepositories(serviceContext, settings)
	if err != nil {
		logger.Error("Could not initialise metadata storage", "error", err)
		os.Exit(1)
	}
	vectorStore, err := buildVectorStore(serviceContext, settings, db)
	if err != nil {
		logger.Error("Could not initialise vector store", "backend", settings.VectorBackend(), "error", err)
		os.Exit(1)
	}
	embedder, err := buildEmbedder(serviceContext, settings)
	if err != nil {
		logger.Error("Could not initialise embedding client", "provider", settings.Embedding.Provider, "error", err)
		os.Exit(1)
	}
	llmProvider, err := buildLLM(serviceContext, settings)
	if err != nil {
		logger.Error("Could not initialise llm client", "provider", settings.LLM.Provider, "error", err)
		os.Exit(1)
	}
	expander, err := query.NewExpander(settings.Rephrase, settings.Retrieval.MaxVariations)
	if err != nil {
		logger.Error("Invalid rephrase rules", "error", err)
		os.Exit(1)
	}

	ragService := rag.NewService(expander, embedder, vectorStore, synth.New(llmProvider), settings.Retrieval)

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	redisOpts := redisStore.Options{Addr: settings.RedisAddr, Password: settings.RedisPassword}
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	if jobRedis, err := redisStore.GetRedisStore(serviceContext, redisOpts, config.RedisJobStore); err == nil {
		serviceConfig.JobStore = store.NewRedisJobStore(jobRedis)
	} else {
		logger.Error("Redis job store is offline, using in-memory job store", "error", err)
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	jobService := job.InitJobService(serviceConfig)

	limiter, err := buildLimiter(serviceContext, settings, redisOpts)
	if err != nil {
		logger.Error("Could not initialise rate limiter", "error", err)
		os.Exit(1)
	}

	uploadDir, err := handlers.UploadDirectory()
	if err != nil {
		logger.Error("Couldn't get upload directory", "error", err)
		os.Exit(1)
	}

	handlers.Init(handlers.Dependencies{
		Answerer:  ragService,
		QA:        admin.NewQAService(repos.qa, vectorStore, embedder),
		Documents: admin.NewDocumentService(repos.documents, vectorStore, jobService, uploadDir),
		Feedback:  feedback.NewService(repos.feedback),
		Jobs:      jobService,
	})
	middleware.Init(middleware.Config{AdminToken: settings.AdminToken, Limiter: limiter})
	if settings.AdminToken == "" {
		logger.Warn("No admin token configured, admin endpoints will reject every request")
	}

	//init worker pool
	worker.InitServices(jobService, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	router := server.NewRouter(settings.AllowedOrigins, mcpserver.NewServer(ragService).Handler())
	server.CreateServer(listenAddr, router)
	go server.ShutDownHandler(shutdownParams)
	go server.ListenAndServe()

	<-stopExecution
	logger.Info("Server stopped")
}
