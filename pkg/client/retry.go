package client

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy configures Retry.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// WaitMin is the base backoff; it doubles per attempt.
	WaitMin time.Duration
	// WaitMax caps a single wait.
	WaitMax time.Duration
}

// DefaultRetryPolicy retries three times between 1s and 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		WaitMin:    1 * time.Second,
		WaitMax:    30 * time.Second,
	}
}

// Retry runs fn until it succeeds, returns an error IsRetryable rejects, or
// the policy is exhausted. Client never retries on its own; use Retry only
// around idempotent calls such as Download or the list operations.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (string, error)) (string, error) {
	var (
		body    string
		lastErr error
	)

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		// Exponential backoff before retry (skip on first attempt)
		if attempt > 0 {
			timer := time.NewTimer(policy.backoff(attempt))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			}
		}

		body, lastErr = fn(ctx)
		if lastErr == nil {
			return body, nil
		}

		if ctx.Err() != nil || !IsRetryable(lastErr) {
			return "", lastErr
		}
	}

	return "", lastErr
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	// Cap attempt to prevent overflow
	if attempt > 10 {
		attempt = 10
	}

	wait := time.Duration(math.Pow(2, float64(attempt-1))) * p.WaitMin

	// Jitter up to WaitMin
	if p.WaitMin > 0 {
		wait += time.Duration(rand.Int64N(int64(p.WaitMin)))
	}

	if p.WaitMax > 0 && wait > p.WaitMax {
		wait = p.WaitMax
	}

	return wait
}
