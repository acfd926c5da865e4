package commonModels

import "time"

type Document struct {
	Id             string    `json:"id" db:"id"`
	Filename       string    `json:"filename" db:"filename"`
	DocType        DocType   `json:"doc_type" db:"doc_type"`
	Partition      Partition `json:"partition" db:"partition"`
	IdempotencyKey string    `json:"idempotency_key" db:"idempotency_key"`
	UploadedAt     time.Time `json:"uploaded_at" db:"uploaded_at"`
}

type DocChunk struct {
	ChunkId        string    `json:"chunk_id"`
	DocumentId     string    `json:"document_id"`
	Partition      Partition `json:"partition"`
	ChunkIndex     int       `json:"chunk_index"`
	Content        string    `json:"content"`
	PageNumber     *int      `json:"page_number,omitempty"`
	AudioTimestamp *string   `json:"audio_timestamp,omitempty"`
}

// DocType is inferred from the filename at upload time.
type DocType string

const (
	DocHandbook   DocType = "handbook"
	DocNewsletter DocType = "newsletter"
	DocMinutes    DocType = "minutes"
	DocSchedule   DocType = "schedule"
	DocPolicy     DocType = "policy"
	DocTranscript DocType = "transcript"
	DocGeneric    DocType = "document"
)

// FileFormat is the extraction path for an uploaded file.
type FileFormat string

const (
	FormatPDF  FileFormat = "PDF"
	FormatDOCX FileFormat = "DOCX"
	FormatTXT  FileFormat = "TXT"
	FormatERR  FileFormat = "ERROR"
)

type QAPair struct {
	Id        string    `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	Audience  Audience  `json:"audience" db:"audience"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type FeedbackKind string

const (
	FeedbackUp   FeedbackKind = "up"
	FeedbackDown FeedbackKind = "down"
)

// Feedback is append-only and never read back by retrieval.
type Feedback struct {
	Id              string       `json:"id" db:"id"`
	Question        string       `json:"question" db:"question"`
	Answer          string       `json:"answer" db:"answer"`
	Audience        Audience     `json:"audience" db:"audience"`
	Feedback        FeedbackKind `json:"feedback" db:"feedback"`
	ChunkIds        []string     `json:"chunk_ids"`
	ChunkScores     []float64    `json:"chunk_scores"`
	ChunkSources    []string     `json:"chunk_sources"`
	SearchType      string       `json:"search_type" db:"search_type"`
	ConfidenceScore float64      `json:"confidence_score" db:"confidence_score"`
	ResponseTimeMs  int64        `json:"response_time_ms" db:"response_time_ms"`
	ModelUsed       string       `json:"model_used" db:"model_used"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}
