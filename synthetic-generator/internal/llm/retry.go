package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy wraps a single provider call with bounded retries. Only
// ErrRateLimited is retryable; every other error propagates immediately.
type RetryPolicy struct {
	MaxAttempts int           // default 3
	BaseDelay   time.Duration // default 1s; wait is BaseDelay * 2^attempt
}

// DefaultRetryPolicy returns the policy used when fields are unset.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	return p
}

// Retry invokes fn up to p.MaxAttempts times. Rate-limit failures back off
// exponentially between attempts; the final attempt's error is returned without
// waiting. Generic so the same policy covers text and JSON calls.
func Retry[T any](ctx context.Context, p RetryPolicy, logger *zap.Logger, provider string, fn func(context.Context) (T, error)) (T, error) {
	p = p.normalized()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !errors.Is(err, ErrRateLimited) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.BaseDelay << uint(attempt) // 2^attempt * BaseDelay
		logger.Info("Provider rate limited, backing off",
			zap.String("provider", provider),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", p.MaxAttempts),
			zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	return zero, lastErr
}
