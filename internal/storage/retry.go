package storage

import (
	"context"
	"time"

	"creditScope/internal/model"
)

// Retrying retries a remote sink with doubling backoff.
type Retrying struct {
	Sink       Sink
	MaxRetries int
	BaseDelay  time.Duration
}

func WithRetry(sink Sink, maxRetries int, baseDelay time.Duration) *Retrying {
	return &Retrying{Sink: sink, MaxRetries: maxRetries, BaseDelay: baseDelay}
}

func (r *Retrying) PutScores(ctx context.Context, scores []model.WalletScore) error {
	return withRetry(ctx, r.MaxRetries, r.BaseDelay, func(ctx context.Context) error {
		return r.Sink.PutScores(ctx, scores)
	})
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
