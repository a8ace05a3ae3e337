package recovery_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdkit/core/fault"
	"github.com/dmitrymomot/cmdkit/core/recovery"
)

// fakeClock steps breaker cooldowns without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBreakerManager(clock *fakeClock) *recovery.Manager {
	return recovery.NewManager(
		recovery.WithClock(clock.Now),
		recovery.WithRetryPolicy(recovery.RetryPolicy{MaxAttempts: 1}),
		recovery.WithBreakerConfig(recovery.BreakerConfig{
			FailureThreshold: 3,
			Cooldown:         30 * time.Second,
			HalfOpenMax:      1,
		}),
	)
}

func failingOp(calls *int) recovery.Operation {
	return func(ctx context.Context) error {
		*calls++
		return fault.New(fault.CategoryIntegration, "provider_error", "down", fault.Retryable())
	}
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	t.Run("opens after consecutive failures and fails fast", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		mgr := newBreakerManager(clock)
		ctx := context.Background()

		var calls int
		for range 3 {
			require.Error(t, mgr.Execute(ctx, "billing-api", failingOp(&calls)))
		}
		require.Equal(t, 3, calls)
		require.Equal(t, recovery.StateOpen, mgr.BreakerState("billing-api"))

		// Next call is rejected without invoking the operation.
		err := mgr.Execute(ctx, "billing-api", failingOp(&calls))
		require.Error(t, err)
		assert.ErrorIs(t, err, fault.ServiceUnavailable("billing-api"))
		assert.Equal(t, 3, calls)
	})

	t.Run("half-open trial success closes the breaker", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		mgr := newBreakerManager(clock)
		ctx := context.Background()

		var calls int
		for range 3 {
			_ = mgr.Execute(ctx, "billing-api", failingOp(&calls))
		}
		require.Equal(t, recovery.StateOpen, mgr.BreakerState("billing-api"))

		clock.Advance(31 * time.Second)
		require.Equal(t, recovery.StateHalfOpen, mgr.BreakerState("billing-api"))

		err := mgr.Execute(ctx, "billing-api", func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 4, calls)
		assert.Equal(t, recovery.StateClosed, mgr.BreakerState("billing-api"))
	})

	t.Run("half-open trial failure reopens and restarts cooldown", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		mgr := newBreakerManager(clock)
		ctx := context.Background()

		var calls int
		for range 3 {
			_ = mgr.Execute(ctx, "billing-api", failingOp(&calls))
		}
		clock.Advance(31 * time.Second)

		require.Error(t, mgr.Execute(ctx, "billing-api", failingOp(&calls)))
		require.Equal(t, 4, calls)
		assert.Equal(t, recovery.StateOpen, mgr.BreakerState("billing-api"))

		// Still open before the restarted cooldown elapses.
		err := mgr.Execute(ctx, "billing-api", failingOp(&calls))
		assert.ErrorIs(t, err, fault.ServiceUnavailable("billing-api"))
		assert.Equal(t, 4, calls)
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		mgr := newBreakerManager(clock)
		ctx := context.Background()

		var calls int
		for range 3 {
			_ = mgr.Execute(ctx, "billing-api", failingOp(&calls))
		}
		require.Equal(t, recovery.StateOpen, mgr.BreakerState("billing-api"))
		assert.Equal(t, recovery.StateClosed, mgr.BreakerState("search-api"))

		require.NoError(t, mgr.Execute(ctx, "search-api", func(ctx context.Context) error {
			return nil
		}))
	})

	t.Run("success resets the consecutive failure counter", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		mgr := newBreakerManager(clock)
		ctx := context.Background()

		var calls int
		_ = mgr.Execute(ctx, "billing-api", failingOp(&calls))
		_ = mgr.Execute(ctx, "billing-api", failingOp(&calls))
		require.NoError(t, mgr.Execute(ctx, "billing-api", func(ctx context.Context) error { return nil }))

		// Two more failures do not trip the threshold of three.
		_ = mgr.Execute(ctx, "billing-api", failingOp(&calls))
		_ = mgr.Execute(ctx, "billing-api", failingOp(&calls))
		assert.Equal(t, recovery.StateClosed, mgr.BreakerState("billing-api"))
	})

	t.Run("empty key bypasses the breaker", func(t *testing.T) {
		t.Parallel()

		mgr := recovery.NewManager(recovery.WithRetryPolicy(recovery.RetryPolicy{MaxAttempts: 1}))
		var calls int
		for range 10 {
			_ = mgr.Execute(context.Background(), "", failingOp(&calls))
		}
		assert.Equal(t, 10, calls)
	})
}

func TestManagerAlert(t *testing.T) {
	t.Parallel()

	t.Run("critical failures fire the alert hook", func(t *testing.T) {
		t.Parallel()

		var alerted *fault.Record
		mgr := recovery.NewManager(
			recovery.WithRetryPolicy(recovery.RetryPolicy{MaxAttempts: 1}),
			recovery.WithAlertHook(func(ctx context.Context, rec *fault.Record) {
				alerted = rec
			}),
		)

		critical := fault.New(fault.CategorySystem, "db_corrupted", "data integrity violation",
			fault.WithSeverity(fault.SeverityCritical))

		err := mgr.Execute(context.Background(), "", func(ctx context.Context) error {
			return critical
		})

		require.Error(t, err)
		require.NotNil(t, alerted)
		assert.Equal(t, critical.ID, alerted.ID)
	})

	t.Run("non-critical failures do not alert", func(t *testing.T) {
		t.Parallel()

		var alerted bool
		mgr := recovery.NewManager(
			recovery.WithRetryPolicy(recovery.RetryPolicy{MaxAttempts: 1}),
			recovery.WithAlertHook(func(ctx context.Context, rec *fault.Record) {
				alerted = true
			}),
		)

		_ = mgr.Execute(context.Background(), "", func(ctx context.Context) error {
			return fault.Conflict("duplicate")
		})

		assert.False(t, alerted)
	})

	t.Run("alert without hook is a no-op", func(t *testing.T) {
		t.Parallel()

		mgr := recovery.NewManager()
		mgr.Alert(context.Background(), fault.New(fault.CategorySystem, "x", "y",
			fault.WithSeverity(fault.SeverityCritical)))
		mgr.Alert(context.Background(), nil)
	})
}

func TestConcurrentBreakerAccess(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	mgr := newBreakerManager(clock)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.Execute(context.Background(), "shared", func(ctx context.Context) error {
				return fault.New(fault.CategoryIntegration, "provider_error", "down")
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, recovery.StateOpen, mgr.BreakerState("shared"))
}
