package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/data/redisStore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T, requests int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(redisStore.NewStore(client), requests, window)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, mr, &clock
}

func TestRedisLimiter_SlidingWindow(t *testing.T) {
	l, _, clock := newTestRedisLimiter(t, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(ctx, "client-a"), "request %d", i+1)
		*clock = clock.Add(time.Second)
	}
	assert.False(t, l.Allow(ctx, "client-a"), "11th request inside the window")
	assert.True(t, l.Allow(ctx, "client-b"), "clients are independent")

	// the first request was at t=0; it leaves the window after 60s
	*clock = time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC).Add(time.Millisecond)
	assert.True(t, l.Allow(ctx, "client-a"))
	assert.False(t, l.Allow(ctx, "client-a"))
}

func TestRedisLimiter_RejectedRequestsDoNotCount(t *testing.T) {
	l, mr, _ := newTestRedisLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		l.Allow(ctx, "client-a")
	}
	members, err := mr.ZMembers(redisKeyPrefix + "client-a")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	l, mr, _ := newTestRedisLimiter(t, 1, time.Minute)
	mr.Close()
	assert.True(t, l.Allow(context.Background(), "client-a"))
	assert.True(t, l.Allow(context.Background(), "client-a"))
}

func newTestMemoryLimiter(t *testing.T, requests int, window time.Duration) (*MemoryLimiter, *time.Time) {
	t.Helper()
	l, err := NewMemoryLimiter(requests, window)
	require.NoError(t, err)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestMemoryLimiter(t *testing.T) {
	l, _ := newTestMemoryLimiter(t, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(ctx, "10.0.0.1"), "request %d", i+1)
	}
	assert.False(t, l.Allow(ctx, "10.0.0.1"))
	assert.True(t, l.Allow(ctx, "10.0.0.2"))
}

func TestMemoryLimiter_SlidingWindow(t *testing.T) {
	l, clock := newTestMemoryLimiter(t, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(ctx, "client-a"), "request %d", i+1)
	}

	// no hit has left the window yet
	*clock = clock.Add(6100 * time.Millisecond)
	assert.False(t, l.Allow(ctx, "client-a"), "11th request inside the window")
	*clock = clock.Add(50 * time.Second)
	assert.False(t, l.Allow(ctx, "client-a"))

	// all ten hits were at t=0; they leave the window after 60s
	*clock = time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC).Add(time.Millisecond)
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(ctx, "client-a"), "request %d after the window moved", i+1)
	}
	assert.False(t, l.Allow(ctx, "client-a"))
}

func TestMemoryLimiter_StaggeredHits(t *testing.T) {
	l, clock := newTestMemoryLimiter(t, 2, time.Minute)
	ctx := context.Background()
	start := *clock

	assert.True(t, l.Allow(ctx, "c"))
	*clock = start.Add(30 * time.Second)
	assert.True(t, l.Allow(ctx, "c"))
	*clock = start.Add(45 * time.Second)
	assert.False(t, l.Allow(ctx, "c"), "rejected hits are not recorded")

	// only the first hit has expired
	*clock = start.Add(61 * time.Second)
	assert.True(t, l.Allow(ctx, "c"))
	assert.False(t, l.Allow(ctx, "c"))
}

func TestLimiters_SatisfyInterface(t *testing.T) {
	var _ Limiter = (*MemoryLimiter)(nil)
	var _ Limiter = (*RedisLimiter)(nil)
}
