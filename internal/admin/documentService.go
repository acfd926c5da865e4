package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/rag/ingest"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

// Enqueuer hands an ingestion job to the worker pool.
type Enqueuer interface {
	Enqueue(ctx context.Context, job jobModel.Job) error
}

// Upload is one file received from the admin surface.
type Upload struct {
	Filename  string
	Partition commonModels.Partition
	Size      int64
	ModTime   time.Time
	Content   io.Reader
}

type UploadResult struct {
	Document commonModels.Document
	// JobId is empty when the upload was a duplicate.
	JobId     string
	Duplicate bool
}

type DocumentService struct {
	repo      commonModels.DocumentRepository
	store     vectorDB.Store
	jobs      Enqueuer
	uploadDir string
	now       func() time.Time
}

func NewDocumentService(repo commonModels.DocumentRepository, store vectorDB.Store, jobs Enqueuer, uploadDir string) *DocumentService {
	return &DocumentService{repo: repo, store: store, jobs: jobs, uploadDir: uploadDir, now: time.Now}
}

// Upload registers the document and queues its ingestion. A file already seen
// with the same partition, name, size and modification time is returned as is.
func (s *DocumentService) Upload(ctx context.Context, up Upload) (UploadResult, error) {
	if up.Filename == "" {
		return UploadResult{}, apperrors.Validation("filename is required")
	}
	if !up.Partition.IsValid() {
		return UploadResult{}, apperrors.Validation("partition must be parent, coach or shared")
	}
	if ingest.FileFormatOf(up.Filename) == commonModels.FormatERR {
		return UploadResult{}, apperrors.Validation("unsupported file format, expected pdf, docx, odt, txt or rtf")
	}
	log := logger_i.FromContext(ctx, "document_admin").With("filename", up.Filename, "partition", up.Partition)

	key := ingest.IdempotencyKey(up.Partition, up.Filename, up.Size, up.ModTime)
	existing, found, err := s.repo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return UploadResult{}, err
	}
	if found {
		log.Info("Duplicate upload, skipping ingestion", "documentId", existing.Id)
		return UploadResult{Document: existing, Duplicate: true}, nil
	}

	path, err := s.saveUpload(up)
	if err != nil {
		return UploadResult{}, apperrors.New(apperrors.KindInternal, "storage error", err)
	}

	doc := commonModels.Document{
		Id:             utils.GetNewUUID(),
		Filename:       up.Filename,
		DocType:        ingest.InferDocType(up.Filename),
		Partition:      up.Partition,
		IdempotencyKey: key,
		UploadedAt:     s.now().UTC(),
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		_ = os.Remove(path)
		if apperrors.KindOf(err) == apperrors.KindConflict {
			// a concurrent upload of the same file won the insert
			if winner, found, findErr := s.repo.FindByIdempotencyKey(ctx, key); findErr == nil && found {
				log.Info("Duplicate upload, skipping ingestion", "documentId", winner.Id)
				return UploadResult{Document: winner, Duplicate: true}, nil
			}
		}
		return UploadResult{}, err
	}

	job := jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     logger_i.TraceID(ctx),
		CreatedTime: s.now(),
		CurrentStep: jobModel.IngestInit,
		JobPayload:  jobModel.JobPayload{Document: doc, FilePath: path},
	}
	if err := s.jobs.Enqueue(ctx, job); err != nil {
		_ = os.Remove(path)
		if delErr := s.repo.DeleteDocument(context.WithoutCancel(ctx), doc.Id); delErr != nil {
			log.Error("Rollback of document failed", "documentId", doc.Id, "error", delErr)
		}
		return UploadResult{}, err
	}
	log.Info("Document queued for ingestion", "documentId", doc.Id, "jobId", job.Id, "docType", doc.DocType)
	return UploadResult{Document: doc, JobId: job.Id}, nil
}

// saveUpload keeps the extension so the worker can pick the extractor.
func (s *DocumentService) saveUpload(up Upload) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0750); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s%s", s.now().UnixNano(), utils.GetNewUUID(), filepath.Ext(up.Filename))
	path := filepath.Join(s.uploadDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, up.Content); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func (s *DocumentService) Get(ctx context.Context, id string) (commonModels.Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *DocumentService) List(ctx context.Context, partition commonModels.Partition) ([]commonModels.Document, error) {
	if partition != "" && !partition.IsValid() {
		return nil, apperrors.Validation("partition must be parent, coach or shared")
	}
	return s.repo.ListDocuments(ctx, partition)
}

// Delete removes the document and every chunk stored for it.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetDocument(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteDocumentChunks(ctx, id); err != nil {
		return apperrors.Upstream("could not delete document chunks", err)
	}
	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}
	logger_i.FromContext(ctx, "document_admin").Info("Deleted document", "documentId", id)
	return nil
}
