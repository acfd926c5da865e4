package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/admin"
	"github.com/akolanti/AcademyAssistant/internal/api"
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
)

func ToStatusURL(jobId string) string {
	return fmt.Sprintf("/api/admin/jobs/%s", jobId)
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:    string(job.Status),
			Step:      string(job.CurrentStep),
			Ingestion: toIngestionResult(job.JobPayload),
		},
	}
}

func toIngestionResult(payload jobModel.JobPayload) *api.IngestionResult {
	if payload.Document.Id == "" {
		return nil
	}
	return &api.IngestionResult{
		DocumentId: payload.Document.Id,
		Filename:   payload.Document.Filename,
		Partition:  payload.Document.Partition,
		ChunkCount: payload.ChunkCount,
	}
}

func ToUploadResponse(res admin.UploadResult) api.UploadResponse {
	out := api.UploadResponse{Document: res.Document, Duplicate: res.Duplicate, JobId: res.JobId}
	if res.JobId != "" {
		out.StatusURL = ToStatusURL(res.JobId)
	}
	return out
}

func ToChatResponse(ans answerModel.Answer) api.ChatResponse {
	sources := ans.Sources
	if sources == nil {
		sources = []answerModel.Source{}
	}
	return api.ChatResponse{
		Id:         ans.Id,
		Question:   ans.Question,
		Answer:     ans.Text,
		Sources:    sources,
		Confidence: ans.Confidence,
		CreatedAt:  ans.CreatedAt,
		Meta: api.ChatMeta{
			Route:          ans.Route,
			SearchType:     ans.SearchType(),
			ModelUsed:      ans.ModelUsed,
			ResponseTimeMs: ans.ResponseTimeMs,
			FallbackTopic:  ans.FallbackTopic,
		},
	}
}

func ToStreamMeta(ans answerModel.Answer) api.StreamMeta {
	resp := ToChatResponse(ans)
	return api.StreamMeta{Id: resp.Id, Sources: resp.Sources, Confidence: resp.Confidence}
}

// BadRequest builds the error body every endpoint answers with.
func BadRequest(id string, error string, code int, retry bool) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   retry,
		},
	}
}
