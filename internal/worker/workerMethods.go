package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/config"
	jobmodel "github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/metrics"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("ingestion_job", time.Since(start))
	}()
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	log := logger_i.FromContext(ctx, "worker").With("jobId", job.Id)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job, log)

	job = _ragService.IngestDocument(ctx, job)
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	job.EndTime = time.Now()
	saveJobState(ctx, job, log)
	log.Info("Job finished", "status", job.Status, "chunks", job.JobPayload.ChunkCount)
}

func removeWorker(reason string) {
	count := atomic.AddInt64(&currentWorkerCount, -1)
	metrics.DecrementActiveWorkerCount()
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	workerWaitGroup.Done()
}

func saveJobState(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to update job status", "error", err)
	}
}
