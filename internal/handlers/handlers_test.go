package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/admin"
	"github.com/akolanti/AcademyAssistant/internal/api"
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/feedback"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAnswerer struct {
	OnAnswer func(ctx context.Context, q answerModel.Question) (answerModel.Answer, error)
	calls    int
}

func (m *mockAnswerer) Answer(ctx context.Context, q answerModel.Question) (answerModel.Answer, error) {
	m.calls++
	return m.OnAnswer(ctx, q)
}

type mockQA struct {
	OnCreate func(in admin.QAInput) (commonModels.QAPair, error)
	OnGet    func(id string) (commonModels.QAPair, error)
	OnList   func(a commonModels.Audience) ([]commonModels.QAPair, error)
	OnUpdate func(id string, in admin.QAInput) (commonModels.QAPair, error)
	OnDelete func(id string) error
}

func (m *mockQA) Create(ctx context.Context, in admin.QAInput) (commonModels.QAPair, error) {
	return m.OnCreate(in)
}
func (m *mockQA) Get(ctx context.Context, id string) (commonModels.QAPair, error) { return m.OnGet(id) }
func (m *mockQA) List(ctx context.Context, a commonModels.Audience) ([]commonModels.QAPair, error) {
	return m.OnList(a)
}
func (m *mockQA) Update(ctx context.Context, id string, in admin.QAInput) (commonModels.QAPair, error) {
	return m.OnUpdate(id, in)
}
func (m *mockQA) Delete(ctx context.Context, id string) error { return m.OnDelete(id) }

type mockDocuments struct {
	OnUpload func(up admin.Upload) (admin.UploadResult, error)
	OnDelete func(id string) error
	uploaded []byte
}

func (m *mockDocuments) Upload(ctx context.Context, up admin.Upload) (admin.UploadResult, error) {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(up.Content)
	m.uploaded = buf.Bytes()
	return m.OnUpload(up)
}
func (m *mockDocuments) Get(ctx context.Context, id string) (commonModels.Document, error) {
	return commonModels.Document{Id: id}, nil
}
func (m *mockDocuments) List(ctx context.Context, p commonModels.Partition) ([]commonModels.Document, error) {
	return []commonModels.Document{}, nil
}
func (m *mockDocuments) Delete(ctx context.Context, id string) error { return m.OnDelete(id) }

type mockFeedback struct {
	last feedback.Input
	err  error
}

func (m *mockFeedback) Record(ctx context.Context, in feedback.Input) (commonModels.Feedback, error) {
	m.last = in
	if m.err != nil {
		return commonModels.Feedback{}, m.err
	}
	return commonModels.Feedback{Id: "fb-1"}, nil
}

type mockJobs struct {
	jobs map[string]jobModel.Job
}

func (m *mockJobs) Status(ctx context.Context, id string) (jobModel.Job, bool) {
	j, ok := m.jobs[id]
	return j, ok
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorBody(t *testing.T, rr *httptest.ResponseRecorder) *api.JobOutgoingError {
	t.Helper()
	var body api.JobResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "Error", body.Result.Status)
	return body.Error
}

func instantAnswer() answerModel.Answer {
	return answerModel.Answer{
		Id:         "ans-1",
		Question:   "How much does TSA cost?",
		Text:       "TSA costs $150 per month.",
		Route:      answerModel.RouteInstant,
		Confidence: 0.91,
		Sources:    []answerModel.Source{{Type: answerModel.OriginQAPair, Question: "How much does TSA cost?", Similarity: 0.91}},
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestChatHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		answer       answerModel.Answer
		answerErr    error
		wantCode     int
		wantAudience commonModels.Audience
		wantCalls    int
	}{
		{"instant", `{"question":"How much does TSA cost?"}`, instantAnswer(), nil, http.StatusOK, commonModels.AudienceParent, 1},
		{"coach", `{"question":"Drill plan?","audience":"coach"}`, instantAnswer(), nil, http.StatusOK, commonModels.AudienceCoach, 1},
		{"fallback has empty sources", `{"question":"xyzzy"}`, answerModel.Answer{Text: "Please contact us.", Route: answerModel.RouteFallback}, nil, http.StatusOK, commonModels.AudienceParent, 1},
		{"missing question", `{"audience":"parent"}`, answerModel.Answer{}, nil, http.StatusBadRequest, "", 0},
		{"bad audience", `{"question":"q","audience":"both"}`, answerModel.Answer{}, nil, http.StatusBadRequest, "", 0},
		{"malformed json", `{"question":`, answerModel.Answer{}, nil, http.StatusBadRequest, "", 0},
		{"generation failure", `{"question":"q"}`, answerModel.Answer{}, apperrors.Generation(errors.New("llm 500")), http.StatusServiceUnavailable, commonModels.AudienceParent, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got answerModel.Question
			answerer := &mockAnswerer{OnAnswer: func(ctx context.Context, q answerModel.Question) (answerModel.Answer, error) {
				got = q
				return tt.answer, tt.answerErr
			}}
			Init(Dependencies{Answerer: answerer})

			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			ChatHandler(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantCalls, answerer.calls)
			if tt.wantCode != http.StatusOK {
				e := decodeErrorBody(t, rr)
				assert.Equal(t, tt.wantCode, e.Code)
				assert.Equal(t, tt.answerErr != nil, e.Retry)
				return
			}
			assert.Equal(t, tt.wantAudience, got.Audience)
			assert.Nil(t, got.OnToken)

			var resp api.ChatResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.answer.Text, resp.Answer)
			assert.NotNil(t, resp.Sources)
			assert.Equal(t, tt.answer.SearchType(), resp.Meta.SearchType)
		})
	}
}

func TestChatHandler_Stream(t *testing.T) {
	answerer := &mockAnswerer{OnAnswer: func(ctx context.Context, q answerModel.Question) (answerModel.Answer, error) {
		require.NotNil(t, q.OnToken)
		require.NoError(t, q.OnToken("Practice is "))
		require.NoError(t, q.OnToken("at 5pm."))
		return answerModel.Answer{Id: "ans-2", Text: "Practice is at 5pm.", Route: answerModel.RouteSynthesize, Confidence: 0.7,
			Sources: []answerModel.Source{{Type: answerModel.OriginDocument, ChunkId: "c1", Similarity: 0.7}}}, nil
	}}
	Init(Dependencies{Answerer: answerer})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"When is practice?","stream":true}`))
	rr := httptest.NewRecorder()
	ChatHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))

	var events []string
	var data []string
	scanner := bufio.NewScanner(rr.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
		if payload, ok := strings.CutPrefix(line, "data: "); ok {
			data = append(data, payload)
		}
	}
	assert.Equal(t, []string{"token", "token", "meta", "done"}, events)
	assert.JSONEq(t, `{"text":"Practice is "}`, data[0])

	var meta api.StreamMeta
	require.NoError(t, json.Unmarshal([]byte(data[2]), &meta))
	assert.Equal(t, 0.7, meta.Confidence)
	assert.Len(t, meta.Sources, 1)

	var done api.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(data[3]), &done))
	assert.Equal(t, "Practice is at 5pm.", done.Answer)
}

func TestChatHandler_StreamByAcceptHeaderReportsError(t *testing.T) {
	Init(Dependencies{Answerer: &mockAnswerer{OnAnswer: func(ctx context.Context, q answerModel.Question) (answerModel.Answer, error) {
		return answerModel.Answer{}, apperrors.Generation(errors.New("timeout"))
	}}})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"q"}`))
	req.Header.Set("Accept", "text/event-stream")
	rr := httptest.NewRecorder()
	ChatHandler(rr, req)

	body := rr.Body.String()
	assert.Contains(t, body, "event: error")
	assert.Contains(t, body, `"can_retry":true`)
	assert.NotContains(t, body, "event: done")
}

func TestFeedbackHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"valid", `{"question":"q","answer":"a","feedback":"up","chunk_ids":["c1"],"chunk_scores":[0.8],"search_type":"document","confidence_score":0.8}`, nil, http.StatusCreated},
		{"bad kind", `{"question":"q","feedback":"sideways"}`, nil, http.StatusBadRequest},
		{"score out of range", `{"question":"q","feedback":"down","confidence_score":1.5}`, nil, http.StatusBadRequest},
		{"store failure", `{"question":"q","feedback":"down"}`, apperrors.Upstream("could not save feedback", errors.New("db")), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &mockFeedback{err: tt.err}
			Init(Dependencies{Feedback: fb})

			rr := httptest.NewRecorder()
			FeedbackHandler(rr, httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusCreated {
				assert.JSONEq(t, `{"id":"fb-1"}`, rr.Body.String())
				assert.Equal(t, []float64{0.8}, fb.last.ChunkScores)
			}
		})
	}
}

func TestQAHandlers(t *testing.T) {
	pair := commonModels.QAPair{Id: "qa-1", Question: "q", Answer: "a", Audience: commonModels.AudienceBoth}
	qa := &mockQA{
		OnCreate: func(in admin.QAInput) (commonModels.QAPair, error) {
			assert.Equal(t, commonModels.AudienceBoth, in.Audience)
			return pair, nil
		},
		OnGet: func(id string) (commonModels.QAPair, error) {
			if id != "qa-1" {
				return commonModels.QAPair{}, apperrors.NotFound("qa pair not found")
			}
			return pair, nil
		},
		OnList: func(a commonModels.Audience) ([]commonModels.QAPair, error) {
			return []commonModels.QAPair{pair}, nil
		},
		OnUpdate: func(id string, in admin.QAInput) (commonModels.QAPair, error) { return pair, nil },
		OnDelete: func(id string) error { return nil },
	}
	Init(Dependencies{QA: qa})

	rr := httptest.NewRecorder()
	CreateQAHandler(rr, httptest.NewRequest(http.MethodPost, "/api/admin/qa", strings.NewReader(`{"question":"q","answer":"a","audience":"both"}`)))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	CreateQAHandler(rr, httptest.NewRequest(http.MethodPost, "/api/admin/qa", strings.NewReader(`{"question":"q","answer":"a","audience":"everyone"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeErrorBody(t, rr).Message, "audience must be one of")

	rr = httptest.NewRecorder()
	GetQAHandler(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/admin/qa/nope", nil), "id", "nope"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	ListQAHandler(rr, httptest.NewRequest(http.MethodGet, "/api/admin/qa?audience=parent", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	UpdateQAHandler(rr, withURLParam(httptest.NewRequest(http.MethodPut, "/api/admin/qa/qa-1", strings.NewReader(`{"question":"q","answer":"b","audience":"parent"}`)), "id", "qa-1"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	DeleteQAHandler(rr, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/qa/qa-1", nil), "id", "qa-1"))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func multipartUpload(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("document", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/admin/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadDocumentHandler(t *testing.T) {
	var got admin.Upload
	docs := &mockDocuments{OnUpload: func(up admin.Upload) (admin.UploadResult, error) {
		got = up
		return admin.UploadResult{Document: commonModels.Document{Id: "doc-1", Filename: up.Filename}, JobId: "job-1"}, nil
	}}
	Init(Dependencies{Documents: docs})

	rr := httptest.NewRecorder()
	UploadDocumentHandler(rr, multipartUpload(t, map[string]string{"partition": "coach", "last_modified": "1700000000000"}, "minutes.txt", "agenda"))
	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp api.UploadResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "job-1", resp.JobId)
	assert.Equal(t, "/api/admin/jobs/job-1", resp.StatusURL)
	assert.Equal(t, commonModels.PartitionCoach, got.Partition)
	assert.Equal(t, int64(6), got.Size)
	assert.Equal(t, time.UnixMilli(1700000000000), got.ModTime)
	assert.Equal(t, "agenda", string(docs.uploaded))
}

func TestUploadDocumentHandler_Rejections(t *testing.T) {
	docs := &mockDocuments{OnUpload: func(up admin.Upload) (admin.UploadResult, error) {
		return admin.UploadResult{Document: commonModels.Document{Id: "doc-1"}, Duplicate: true}, nil
	}}
	Init(Dependencies{Documents: docs})

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
	}{
		{"bad partition", multipartUpload(t, map[string]string{"partition": "both"}, "a.pdf", "x"), http.StatusBadRequest},
		{"no file", multipartUpload(t, map[string]string{"partition": "shared"}, "", ""), http.StatusBadRequest},
		{"bad last_modified", multipartUpload(t, map[string]string{"partition": "shared", "last_modified": "yesterday"}, "a.pdf", "x"), http.StatusBadRequest},
		{"duplicate", multipartUpload(t, map[string]string{"partition": "shared"}, "a.pdf", "x"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			UploadDocumentHandler(rr, tt.req)
			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestDeleteDocumentHandler(t *testing.T) {
	Init(Dependencies{Documents: &mockDocuments{OnDelete: func(id string) error {
		return apperrors.NotFound("document not found")
	}}})
	rr := httptest.NewRecorder()
	DeleteDocumentHandler(rr, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/documents/x", nil), "id", "x"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "document not found", decodeErrorBody(t, rr).Message)
}

func TestGetJobStatusHandler(t *testing.T) {
	Init(Dependencies{Jobs: &mockJobs{jobs: map[string]jobModel.Job{
		"job-1": {
			Id:          "job-1",
			Status:      jobModel.JobStatusError,
			CurrentStep: jobModel.ExtractText,
			Error:       jobModel.JobError{Code: 422, Message: "Unsupported file format"},
			JobPayload:  jobModel.JobPayload{Document: commonModels.Document{Id: "doc-1", Partition: commonModels.PartitionShared}},
		},
	}}})

	rr := httptest.NewRecorder()
	GetJobStatusHandler(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/admin/jobs/job-1", nil), "id", "job-1"))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.JobResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Error", resp.Result.Status)
	assert.Equal(t, "doc-1", resp.Result.Ingestion.DocumentId)
	require.NotNil(t, resp.Error)
	assert.Equal(t, 422, resp.Error.Code)

	rr = httptest.NewRecorder()
	GetJobStatusHandler(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/admin/jobs/missing", nil), "id", "missing"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
