package handlers

import (
	"net/http"

	"github.com/akolanti/AcademyAssistant/internal/adapter"
	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
)

// GetJobStatusHandler reports the progress of one ingestion job.
func GetJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := deps.Jobs.Status(r.Context(), idString)
	if !isFound {
		WriteError(w, r, apperrors.NotFound("Job not found"))
		return
	}
	writeJsonResponse(w, r, http.StatusOK, adapter.ToAPIResponse(result))
}
