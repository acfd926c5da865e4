package ratelimit

import "context"

// Limiter gates the answer pipeline per client before any embedding work.
type Limiter interface {
	Allow(ctx context.Context, clientID string) bool
}
