package ratelimit

import (
	"context"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/data/redisStore"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter is a sliding window shared by every replica. When redis is
// unreachable requests are let through and the failure is logged.
type RedisLimiter struct {
	store    *redisStore.Store
	requests int
	window   time.Duration
	now      func() time.Time
}

func NewRedisLimiter(store *redisStore.Store, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{store: store, requests: requests, window: window, now: time.Now}
}

func (r *RedisLimiter) Allow(ctx context.Context, clientID string) bool {
	admitted, err := r.store.WindowAdmit(ctx, redisKeyPrefix+clientID, r.now(), r.window, r.requests, utils.GetNewUUID())
	if err != nil {
		logger_i.FromContext(ctx, "rate_limiter").Error("Sliding window check failed, allowing request", "clientId", clientID, "error", err)
		return true
	}
	return admitted
}
