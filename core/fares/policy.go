package fares

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy describes how transient upstream failures are retried.
// It is passed into the search client explicitly rather than being implicit
// control flow, so tests can collapse the delays.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration

	// Multiplier grows the delay between successive retries.
	Multiplier float64

	// MaxInterval caps the delay between attempts.
	MaxInterval time.Duration
}

// DefaultRetryPolicy matches the upstream service's observed tolerance:
// three attempts, 4s initial delay doubling up to a 10s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 4 * time.Second,
		Multiplier:      2,
		MaxInterval:     10 * time.Second,
	}
}

// backOff builds the backoff schedule for one search request.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.MaxInterval = p.MaxInterval
	// Bounded by attempt count, not wall clock
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}
