package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/akolanti/AcademyAssistant/internal/adapter"
	"github.com/akolanti/AcademyAssistant/internal/api"
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

// ChatHandler answers one question, as JSON or as server-sent events.
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := decodeRequest(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	audience, err := commonModels.ParseRequester(req.Audience)
	if err != nil {
		WriteError(w, r, apperrors.Validation(err.Error()))
		return
	}
	question := answerModel.Question{Text: req.Question, Audience: audience}

	if req.Stream || strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		streamAnswer(w, r, question)
		return
	}

	ans, err := deps.Answerer.Answer(r.Context(), question)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusOK, adapter.ToChatResponse(ans))
}

type eventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (e *eventWriter) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

// streamAnswer sends token events while the answer is generated, then meta and done.
func streamAnswer(w http.ResponseWriter, r *http.Request, question answerModel.Question) {
	log := logger_i.FromContext(r.Context(), "chat_stream")
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, apperrors.New(apperrors.KindInternal, "streaming unsupported", nil))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	sse := &eventWriter{w: w, flusher: flusher}

	question.OnToken = func(token string) error {
		return sse.send("token", api.StreamToken{Text: token})
	}

	ans, err := deps.Answerer.Answer(r.Context(), question)
	if err != nil {
		status, retry := apperrors.HTTPStatus(err)
		log.Error("Streamed answer failed", "status", status, "error", err)
		body := adapter.BadRequest(logger_i.TraceID(r.Context()), apperrors.PublicMessage(err), status, retry)
		if sendErr := sse.send("error", body.Error); sendErr != nil {
			log.Debug("Client gone before error event", "error", sendErr)
		}
		return
	}

	if err := sse.send("meta", adapter.ToStreamMeta(ans)); err != nil {
		log.Debug("Client gone before meta event", "error", err)
		return
	}
	if err := sse.send("done", adapter.ToChatResponse(ans)); err != nil {
		log.Debug("Client gone before done event", "error", err)
	}
}
