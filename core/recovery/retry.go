package recovery

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/cmdkit/core/fault"
)

// Operation is a unit of work subject to recovery strategies.
type Operation func(ctx context.Context) error

// RetryPolicy controls retry attempts and backoff growth.
type RetryPolicy struct {
	MaxAttempts  int           `env:"RECOVERY_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	InitialDelay time.Duration `env:"RECOVERY_RETRY_INITIAL_DELAY" envDefault:"100ms"`
	MaxDelay     time.Duration `env:"RECOVERY_RETRY_MAX_DELAY" envDefault:"5s"`
}

// DefaultRetryPolicy is applied when a Manager is built without an explicit
// policy.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     5 * time.Second,
}

// Retry runs op up to policy.MaxAttempts times with exponentially growing
// delays. An attempt is only repeated when the error normalizes to a
// retryable record; terminal categories (Validation, BusinessRule) and
// non-retryable records stop immediately.
func Retry(ctx context.Context, policy RetryPolicy, op Operation) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	delay := policy.InitialDelay

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if policy.MaxDelay > 0 && delay > policy.MaxDelay {
				delay = policy.MaxDelay
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryableError(err) {
			return err
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", policy.MaxAttempts, lastErr)
}

// retryableError reports whether the recovery layer may repeat the failed
// attempt. Terminal categories never retry regardless of the record's flag.
func retryableError(err error) bool {
	rec := fault.Normalize(err)
	if rec == nil || !rec.Retryable {
		return false
	}
	switch rec.Category {
	case fault.CategoryValidation, fault.CategoryBusinessRule:
		return false
	}
	return true
}
