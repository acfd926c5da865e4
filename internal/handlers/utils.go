package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/AcademyAssistant/internal/adapter"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

const maxJSONBody = 1 << 20

func writeJsonResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logger_i.FromContext(r.Context(), "RequestHandler").Error("Error encoding response", "error", err)
	}
}

// WriteError maps err to its status code and writes the shared error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, retry := apperrors.HTTPStatus(err)
	log := logger_i.FromContext(r.Context(), "RequestHandler")
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		log.Warn("Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	WriteErrorResponse(w, status, logger_i.TraceID(r.Context()), apperrors.PublicMessage(err), retry)
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, message string, retry bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	_ = json.NewEncoder(w).Encode(adapter.BadRequest(id, message, httpCode, retry))
}

// decodeRequest reads a JSON body into req and validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, req any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger_i.FromContext(r.Context(), "RequestHandler").Debug("Couldn't close the request body", "error", err)
		}
	}(body)

	if err := json.NewDecoder(body).Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.New(apperrors.KindValidation, "request body too large", err)
		}
		return apperrors.New(apperrors.KindValidation, "request body must be valid JSON", err)
	}
	return validateRequest(req)
}

// UploadDirectory is where uploads wait for their ingestion job.
func UploadDirectory() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", err
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", err
	}
	return targetDir, nil
}
