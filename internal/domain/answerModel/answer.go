package answerModel

import (
	"time"

	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
)

// Route is the terminal state the pipeline resolved to.
type Route string

const (
	RouteInstant    Route = "instant"
	RouteSynthesize Route = "synthesize"
	RouteFallback   Route = "fallback"
)

// Stage names are used for logging and latency metrics.
type Stage string

const (
	StageExpand     Stage = "EXPAND"
	StageQASearch   Stage = "QA_SEARCH"
	StageDocSearch  Stage = "DOC_SEARCH"
	StageSynthesize Stage = "SYNTHESIZE"
	StageFallback   Stage = "FALLBACK"
	StageInstant    Stage = "INSTANT"
	StageDone       Stage = "DONE"
)

type EffortTier string

const (
	EffortFast     EffortTier = "fast"
	EffortAdvanced EffortTier = "advanced"
)

type Origin string

const (
	OriginQAPair   Origin = "qa_pair"
	OriginDocument Origin = "document"
)

// QAMatch is one Q&A-tier hit.
type QAMatch struct {
	Id         string
	Question   string
	Answer     string
	Category   string
	Audience   commonModels.Audience
	Similarity float64
}

// RetrievalResult is one document-tier hit. Ephemeral, never persisted.
type RetrievalResult struct {
	SourceId          string
	DocumentId        string
	Content           string
	Partition         commonModels.Partition
	Similarity        float64
	KeywordScore      float64
	BoostedSimilarity float64
	PageNumber        *int
	Origin            Origin
}

// Source is what the caller sees for each piece of evidence.
type Source struct {
	Type       Origin  `json:"type"`
	Question   string  `json:"question,omitempty"`
	Category   string  `json:"category,omitempty"`
	ChunkId    string  `json:"chunk_id,omitempty"`
	DocumentId string  `json:"document_id,omitempty"`
	Content    string  `json:"content,omitempty"`
	Similarity float64 `json:"similarity"`
	PageNumber *int    `json:"page_number,omitempty"`
}

// Answer is produced on every path through the pipeline.
type Answer struct {
	Id             string
	Question       string
	Audience       commonModels.Audience
	Text           string
	Sources        []Source
	Confidence     float64
	Route          Route
	Effort         EffortTier
	ModelUsed      string
	FallbackTopic  string
	CreatedAt      time.Time
	ResponseTimeMs int64
}

// SearchType is the label recorded with feedback.
func (a Answer) SearchType() string {
	switch a.Route {
	case RouteInstant:
		return "qa_pair"
	case RouteSynthesize:
		return "document"
	default:
		return "fallback"
	}
}

// Question is the validated input to the pipeline.
type Question struct {
	Text     string
	Audience commonModels.Audience
	// OnToken, when set, receives the answer text incrementally.
	OnToken func(token string) error
}
