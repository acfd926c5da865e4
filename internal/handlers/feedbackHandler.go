package handlers

import (
	"net/http"

	"github.com/akolanti/AcademyAssistant/internal/api"
	"github.com/akolanti/AcademyAssistant/internal/feedback"
)

func FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var req api.FeedbackRequest
	if err := decodeRequest(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	fb, err := deps.Feedback.Record(r.Context(), feedback.Input{
		Question:        req.Question,
		Answer:          req.Answer,
		Audience:        req.Audience,
		Feedback:        req.Feedback,
		ChunkIds:        req.ChunkIds,
		ChunkScores:     req.ChunkScores,
		ChunkSources:    req.ChunkSources,
		SearchType:      req.SearchType,
		ConfidenceScore: req.ConfidenceScore,
		ResponseTimeMs:  req.ResponseTimeMs,
		ModelUsed:       req.ModelUsed,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusCreated, api.FeedbackResponse{Id: fb.Id})
}
