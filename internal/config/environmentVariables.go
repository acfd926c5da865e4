package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	//embeddings are stored as vector(1536) in postgres and as 1536-d points in qdrant
	EmbeddingOutputDimensionality int32 = 1536

	//ingestion worker pool
	RequestsPerNewWorkerCount int64 = 5
	MaxWorkerCount            int64 = 4
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts - write timeout is long because synthesized answers can stream for a while
	ReadTimeout            = 10 * time.Second
	WriteTimeout           = 60 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ingestion job buffer limit
	BufferLimit = 50

	//upper bound for one answer, covers embeddings + searches + generation
	AnswerTimeout = 45 * time.Second
	IngestTimeout = 10 * time.Minute

	//vectorDB
	QdrantHost             = "localhost"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 2
	QACollectionName       = "academy-qa-pairs"
	ChunkCollectionPrefix  = "academy-chunks-"
	PostgresMaxOpenConns   = 20
	PostgresMaxIdleConns   = 5
	PostgresConnMaxIdle    = 5 * time.Minute
	PostgresConnectTimeout = 5 * time.Second

	//llm
	ModelTemperature float32 = 0.3

	FastMaxTokens     = 400
	AdvancedMaxTokens = 900

	//embeddings
	GeminiFastModel      = "gemini-2.5-flash-lite"
	GeminiAdvancedModel  = "gemini-2.5-flash"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIFastModel      = "gpt-4o-mini"
	OpenAIAdvancedModel  = "gpt-4o"
	OpenAIEmbeddingModel = "text-embedding-3-small"
	EmbeddingCacheSize   = 2048

	//chunking
	MaxChunkSize = 1000
	ChunkOverlap = 150
	EmbedBatch   = 100
	UpsertBatch  = 200

	//ingestion embedding calls per second, shared by every worker
	EmbedCallsPerSecond = 2

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore  = 0
	RedisRateStore = 2

	RedisJobStoreTTL = 24 * time.Hour

	//feedback answers are stored truncated
	FeedbackAnswerLimit = 1000

	//admin uploads
	MaxUploadSize = 32 << 20 //32mb
)
