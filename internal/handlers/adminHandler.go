package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/adapter"
	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/admin"
	"github.com/akolanti/AcademyAssistant/internal/api"
	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
)

func ListQAHandler(w http.ResponseWriter, r *http.Request) {
	pairs, err := deps.QA.List(r.Context(), commonModels.Audience(r.URL.Query().Get("audience")))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusOK, pairs)
}

func CreateQAHandler(w http.ResponseWriter, r *http.Request) {
	var req api.QARequest
	if err := decodeRequest(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	pair, err := deps.QA.Create(r.Context(), toQAInput(req))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusCreated, pair)
}

func GetQAHandler(w http.ResponseWriter, r *http.Request) {
	pair, err := deps.QA.Get(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusOK, pair)
}

func UpdateQAHandler(w http.ResponseWriter, r *http.Request) {
	var req api.QARequest
	if err := decodeRequest(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	pair, err := deps.QA.Update(r.Context(), utils.GetChiURLParam(r, "id"), toQAInput(req))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusOK, pair)
}

func DeleteQAHandler(w http.ResponseWriter, r *http.Request) {
	if err := deps.QA.Delete(r.Context(), utils.GetChiURLParam(r, "id")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toQAInput(req api.QARequest) admin.QAInput {
	return admin.QAInput{
		Question: req.Question,
		Answer:   req.Answer,
		Audience: commonModels.Audience(req.Audience),
		Category: req.Category,
	}
}

// UploadDocumentHandler accepts multipart form fields "document" (file),
// "partition" and optionally "last_modified" in unix milliseconds.
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteError(w, r, apperrors.New(apperrors.KindValidation, "File too large or bad request", err))
		return
	}

	partition, err := commonModels.ParsePartition(r.FormValue("partition"))
	if err != nil {
		WriteError(w, r, apperrors.Validation(err.Error()))
		return
	}
	modTime, err := parseLastModified(r.FormValue("last_modified"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteError(w, r, apperrors.New(apperrors.KindValidation, "Could not retrieve file", err))
		return
	}
	defer fileReader.Close()

	res, err := deps.Documents.Upload(r.Context(), admin.Upload{
		Filename:  fileMetadata.Filename,
		Partition: partition,
		Size:      fileMetadata.Size,
		ModTime:   modTime,
		Content:   fileReader,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	status := http.StatusAccepted
	if res.Duplicate {
		status = http.StatusOK
	}
	writeJsonResponse(w, r, status, adapter.ToUploadResponse(res))
}

func parseLastModified(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return time.Time{}, apperrors.New(apperrors.KindValidation, "last_modified must be unix milliseconds", err)
	}
	return time.UnixMilli(ms), nil
}

func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := deps.Documents.List(r.Context(), commonModels.Partition(r.URL.Query().Get("partition")))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusOK, docs)
}

func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := deps.Documents.Get(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJsonResponse(w, r, http.StatusOK, doc)
}

func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if err := deps.Documents.Delete(r.Context(), utils.GetChiURLParam(r, "id")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
