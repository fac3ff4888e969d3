package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
)

// RetryPolicy bounds a Retry loop. BaseDelay doubles per attempt up to MaxDelay.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as non-retryable; Retry returns the wrapped error at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry executes fn with exponential backoff and full jitter.
// Jitter: random duration in [0, currentDelay]. Context errors are never retried.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 60 * time.Second
	}
	meter := otel.Meter("infinsafe-go")
	attemptCounter, _ := meter.Int64Counter("infinsafe_resilience_retry_attempts_total")
	successCounter, _ := meter.Int64Counter("infinsafe_resilience_retry_success_total")
	failCounter, _ := meter.Int64Counter("infinsafe_resilience_retry_fail_total")

	cur := p.BaseDelay
	var lastErr error
	for i := 0; i < p.Attempts; i++ {
		if err := ctx.Err(); err != nil {
			failCounter.Add(ctx, 1)
			return zero, err
		}
		v, err := fn(ctx)
		attemptCounter.Add(ctx, 1)
		if err == nil {
			successCounter.Add(ctx, 1)
			return v, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			failCounter.Add(ctx, 1)
			return zero, perm.err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			failCounter.Add(ctx, 1)
			return zero, err
		}
		lastErr = err
		if i == p.Attempts-1 {
			break
		}
		if cur > p.MaxDelay {
			cur = p.MaxDelay
		}
		var sleep time.Duration
		if cur > 0 {
			sleep = time.Duration(rand.Int63n(int64(cur) + 1))
		}
		select {
		case <-ctx.Done():
			failCounter.Add(ctx, 1)
			return zero, ctx.Err()
		case <-time.After(sleep):
		}
		cur *= 2
	}
	failCounter.Add(ctx, 1)
	return zero, lastErr
}
