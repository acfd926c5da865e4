package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const maxTrackedClients = 10000

// MemoryLimiter is a per-client sliding window kept in process. Each client
// holds the times of its admitted requests; the least recently seen clients are evicted.
type MemoryLimiter struct {
	clients  *lru.Cache[string, []time.Time]
	mu       sync.Mutex
	requests int
	window   time.Duration
	now      func() time.Time
}

func NewMemoryLimiter(requests int, window time.Duration) (*MemoryLimiter, error) {
	cache, err := lru.New[string, []time.Time](maxTrackedClients)
	if err != nil {
		return nil, err
	}
	return &MemoryLimiter{
		clients:  cache,
		requests: requests,
		window:   window,
		now:      time.Now,
	}, nil
}

// Allow admits the request when fewer than requests hits fall inside the
// window ending now. Rejected requests are not recorded.
func (m *MemoryLimiter) Allow(ctx context.Context, clientID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-m.window)
	hits, _ := m.clients.Get(clientID)

	live := hits[:0]
	for _, hit := range hits {
		if hit.After(cutoff) {
			live = append(live, hit)
		}
	}
	if len(live) >= m.requests {
		m.clients.Add(clientID, live)
		return false
	}
	m.clients.Add(clientID, append(live, now))
	return true
}
