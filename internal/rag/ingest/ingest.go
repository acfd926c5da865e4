package ingest

import (
	"context"
	"os"

	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/rag/embedding"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

type rawPage struct {
	// Number is 0 when the format has no page structure.
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// ProcessDocumentIngestion extracts, chunks, embeds and stores one uploaded
// file into its document's partition. The uploaded temp file is always removed.
func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, e embedding.Embedder, store vectorDB.Store) jobModel.Job {
	doc := job.JobPayload.Document
	log := logger_i.FromContext(ctx, "document_ingestion").With("documentId", doc.Id, "partition", doc.Partition)
	defer removeUpload(job.JobPayload.FilePath, log)

	log.Debug("Processing document", "filename", doc.Filename, "docType", doc.DocType)

	job.CurrentStep = jobModel.ExtractText
	format := FileFormatOf(job.JobPayload.FilePath)
	if format == commonModels.FormatERR {
		return failed(job, "Unsupported file format", false, log, nil)
	}

	pages, err := extractText(job.JobPayload.FilePath, format, log)
	if err != nil {
		return failed(job, "Error extracting document content", false, log, err)
	}

	job.CurrentStep = jobModel.ChunkText
	chunks := PrepareChunks(pages, doc)
	if len(chunks) == 0 {
		return failed(job, "Document contains no extractable text", false, log, nil)
	}
	log.Debug("Processing document", "pages", len(pages), "chunks", len(chunks))

	job.CurrentStep = jobModel.EmbeddingAPICall
	if err := BatchIngest(ctx, chunks, store, e); err != nil {
		job.CurrentStep = jobModel.VectorDBCall
		return failed(job, "Error embedding or storing document", true, log, err)
	}

	job.JobPayload.ChunkCount = len(chunks)
	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	log.Info("Document ingested", "chunks", len(chunks))
	return job
}

func failed(job jobModel.Job, message string, retry bool, log *logger_i.Logger, err error) jobModel.Job {
	log.Error(message, "error", err, "step", job.CurrentStep)
	job.Status = jobModel.JobStatusError
	job.Error = jobModel.JobError{Code: 422, Message: message, Retry: retry}
	if retry {
		job.Error.Code = 502
	}
	return job
}

func removeUpload(path string, log *logger_i.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Error("Error removing file", "error", err)
	}
}
