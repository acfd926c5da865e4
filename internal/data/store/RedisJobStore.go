package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/data/redisStore"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

const jobKeyPrefix = "ingest-job:"

// RedisJobStore keeps ingestion job status for config.RedisJobStoreTTL so any
// replica can answer a status poll.
type RedisJobStore struct {
	store *redisStore.Store
}

func NewRedisJobStore(store *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{store: store}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := logger_i.FromContext(ctx, "redis_jobstore").With("jobId", job.Id)
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, jobKeyPrefix+job.Id, data, config.RedisJobStoreTTL)
	if err == nil {
		log.Debug("Saved job to Redis", "status", job.Status, "step", job.CurrentStep)
	}
	return err
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	log := logger_i.FromContext(ctx, "redis_jobstore").With("jobId", jobId)
	val, err := s.store.Get(ctx, jobKeyPrefix+jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		log.Error("Error reading job from Redis", "error", err)
		return job, false
	}

	if err = json.Unmarshal([]byte(val), &job); err != nil {
		log.Error("Error unmarshalling job", "error", err)
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	log := logger_i.FromContext(ctx, "redis_jobstore").With("jobId", jobID)
	if err := s.store.Del(ctx, jobKeyPrefix+jobID); err != nil {
		log.Error("Error deleting job from Redis", "error", err)
		return
	}
	log.Debug("Job deleted from Redis")
}
