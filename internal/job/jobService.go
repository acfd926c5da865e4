package job

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/domain/apperrors"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/metrics"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

// Service is the ingestion queue shared by the upload handler and the worker pool.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}

// Enqueue records the job as queued and hands it to the worker pool.
// It blocks while the buffer is full, until ctx is done.
func (s *Service) Enqueue(ctx context.Context, job jobModel.Job) error {
	log := logger_i.FromContext(ctx, "job_service").With("jobId", job.Id)
	job.Status = jobModel.JobStatusQueued
	if err := s.JobStore.SaveJob(ctx, job); err != nil {
		return apperrors.Upstream("could not record ingestion job", err)
	}

	select {
	case s.JobChannel <- job:
	case <-ctx.Done():
		s.JobStore.DeleteJob(context.WithoutCancel(ctx), job.Id)
		return apperrors.New(apperrors.KindUpstream, "ingestion queue is full, please retry", ctx.Err())
	}
	metrics.IncrementJobsInQueue()
	log.Info("Queued ingestion job", "documentId", job.JobPayload.Document.Id)

	// every ingestion may take a while, so ask the dispatcher for another worker
	// on every RequestsPerNewWorkerCount-th job; idle workers retire on their own
	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 || count == 1 {
		select {
		case s.DispatcherChannel <- true:
			metrics.StartDispatcherSignalCount()
		default:
		}
	}
	return nil
}

func (s *Service) Status(ctx context.Context, jobId string) (jobModel.Job, bool) {
	if jobId == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, jobId)
}
