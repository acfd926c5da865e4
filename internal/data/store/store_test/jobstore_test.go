package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/data/redisStore"
	"github.com/akolanti/AcademyAssistant/internal/data/store"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob(id string) jobModel.Job {
	return jobModel.Job{
		Id:          id,
		Status:      jobModel.JobStatusRunning,
		CurrentStep: jobModel.ChunkText,
		JobPayload: jobModel.JobPayload{
			Document: commonModels.Document{Id: "doc-1", Filename: "handbook.pdf", Partition: commonModels.PartitionParent},
		},
	}
}

func TestJobStores_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	stores := map[string]jobModel.JobStore{
		"redis":     store.NewRedisJobStore(redisStore.NewStore(client)),
		"in_memory": store.InitInMemoryJobStore(),
	}

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	for name, jobStore := range stores {
		t.Run(name, func(t *testing.T) {
			job := testJob("job_abc_123")

			require.NoError(t, jobStore.SaveJob(ctx, job))

			got, found := jobStore.GetJob(ctx, job.Id)
			require.True(t, found)
			assert.Equal(t, job.JobPayload.Document.Filename, got.JobPayload.Document.Filename)
			assert.Equal(t, jobModel.ChunkText, got.CurrentStep)

			_, found = jobStore.GetJob(ctx, "ghost-id")
			assert.False(t, found)

			jobStore.DeleteJob(ctx, job.Id)
			_, found = jobStore.GetJob(ctx, job.Id)
			assert.False(t, found)
		})
	}
}

func TestRedisJobStore_ExpiresJobs(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.NewRedisJobStore(redisStore.NewStore(client))
	ctx := context.Background()

	require.NoError(t, jobStore.SaveJob(ctx, testJob("ttl-job")))
	mr.FastForward(config.RedisJobStoreTTL + time.Second)

	_, found := jobStore.GetJob(ctx, "ttl-job")
	assert.False(t, found)
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.NewRedisJobStore(redisStore.NewStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := testJob("race-job")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	_, found := jobStore.GetJob(ctx, "race-job")
	assert.True(t, found)
}
