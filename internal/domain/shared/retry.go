package shared

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryPolicy controls the retry behaviour of RetryOnConflict.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first one
	MaxAttempts int
	// BaseDelay is the delay unit for exponential backoff (attempt n waits 2^n * BaseDelay)
	BaseDelay time.Duration
	// MaxJitter is the upper bound of the random jitter added to each backoff
	MaxJitter time.Duration
}

/// DefaultRetryPolicy returns the policy used for optimistic-concurrency writes:
// 5 attempts, 100ms base delay, up to 100ms jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		MaxJitter:   100 * time.Millisecond,
	}
}

// backoff returns the delay before retry number attempt (0-based).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := (1 << attempt) * p.BaseDelay
	if p.MaxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(p.MaxJitter)))
	}
	return delay
}

// RetryOnConflict runs fn until it succeeds, fails with a non-conflict error,
// or the policy's attempts are exhausted. Only ErrConcurrencyConflict (or a
// DomainError carrying its code) triggers a retry; any other error is returned
// immediately. When attempts are exhausted the last conflict error is returned
// so the caller surfaces a concurrency failure instead of silently dropping
// the write.
func RetryOnConflict(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(policy.backoff(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsConcurrencyConflict(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// IsConcurrencyConflict reports whether err represents an optimistic-locking
// conflict, including wrapped domain errors carrying the conflict code.
func IsConcurrencyConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConcurrencyConflict) {
		return true
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrConcurrencyConflict.Code
	}
	return false
}
