package api

import (
	"time"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

// JobResponse reports an ingestion job. Error bodies share its shape.
type JobResponse struct {
	Id        string            `json:"id"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"can_retry"`
}

type IngestionResult struct {
	DocumentId string                 `json:"document_id"`
	Filename   string                 `json:"filename"`
	Partition  commonModels.Partition `json:"partition"`
	ChunkCount int                    `json:"chunk_count"`
}

type Result struct {
	Status    string           `json:"status"`
	Step      string           `json:"step,omitempty"`
	Ingestion *IngestionResult `json:"ingestion,omitempty"`
}

// responses---------------------

type ChatResponse struct {
	Id         string               `json:"id"`
	Question   string               `json:"question"`
	Answer     string               `json:"answer"`
	Sources    []answerModel.Source `json:"sources"`
	Confidence float64              `json:"confidence"`
	CreatedAt  time.Time            `json:"created_at"`
	Meta       ChatMeta             `json:"meta"`
}

// ChatMeta carries what a client needs to send feedback about the answer.
type ChatMeta struct {
	Route          answerModel.Route `json:"route"`
	SearchType     string            `json:"search_type"`
	ModelUsed      string            `json:"model_used,omitempty"`
	ResponseTimeMs int64             `json:"response_time_ms"`
	FallbackTopic  string            `json:"fallback_topic,omitempty"`
}

// StreamMeta is the first server-sent event of a streamed answer.
type StreamMeta struct {
	Id         string               `json:"id"`
	Sources    []answerModel.Source `json:"sources"`
	Confidence float64              `json:"confidence"`
}

type StreamToken struct {
	Text string `json:"text"`
}

type UploadResponse struct {
	Document  commonModels.Document `json:"document"`
	Duplicate bool                  `json:"duplicate"`
	JobId     string                `json:"job_id,omitempty"`
	StatusURL string                `json:"status_url,omitempty"`
}

type FeedbackResponse struct {
	Id string `json:"id"`
}

// requests---------------------

type ChatRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
	Audience string `json:"audience,omitempty" validate:"omitempty,oneof=parent coach"`
	Stream   bool   `json:"stream,omitempty"`
}

type FeedbackRequest struct {
	Question        string    `json:"question" validate:"required,max=2000"`
	Answer          string    `json:"answer"`
	Audience        string    `json:"audience,omitempty" validate:"omitempty,oneof=parent coach"`
	Feedback        string    `json:"feedback" validate:"required,oneof=up down"`
	ChunkIds        []string  `json:"chunk_ids,omitempty"`
	ChunkScores     []float64 `json:"chunk_scores,omitempty" validate:"dive,gte=0,lte=1"`
	ChunkSources    []string  `json:"chunk_sources,omitempty"`
	SearchType      string    `json:"search_type,omitempty" validate:"omitempty,oneof=qa_pair document fallback"`
	ConfidenceScore float64   `json:"confidence_score" validate:"gte=0,lte=1"`
	ResponseTimeMs  int64     `json:"response_time_ms" validate:"gte=0"`
	ModelUsed       string    `json:"model_used,omitempty"`
}

type QARequest struct {
	Question string `json:"question" validate:"required,max=2000"`
	Answer   string `json:"answer" validate:"required"`
	Audience string `json:"audience" validate:"required,oneof=parent coach both"`
	Category string `json:"category,omitempty" validate:"max=100"`
}
