package llm

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  2,
		Interval:     30 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
	}
}

// Breaker stops calling a failing model provider for a while, so requests
// fail fast with a retryable error instead of each waiting on a timeout.
type Breaker struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

func NewBreaker(name string, inner Provider, cfg BreakerConfig) *Breaker {
	log := logger_i.NewLogger("llm_breaker")
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// a caller hanging up says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Breaker{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *Breaker) Generate(ctx context.Context, req Request) (Result, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, req)
	})
	if err != nil {
		return Result{}, err
	}
	return out.(Result), nil
}

func (b *Breaker) Stream(ctx context.Context, req Request, onToken func(token string) error) (Result, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Stream(ctx, req, onToken)
	})
	if err != nil {
		return Result{}, err
	}
	return out.(Result), nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
