// Package recovery provides failure-recovery strategies for command
// execution: retry with exponential backoff, fallback values, per-dependency
// circuit breakers, and compensation stacks for multi-step operations.
//
// The Manager ties the strategies together. It owns circuit breaker state
// keyed by dependency name (shared by every caller referencing the same key)
// and fires the alert hook for Critical-severity error records regardless of
// recovery outcome.
//
// # Usage
//
//	mgr := recovery.NewManager(
//	    recovery.WithRetryPolicy(recovery.RetryPolicy{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond, MaxDelay: 5 * time.Second}),
//	    recovery.WithBreakerConfig(recovery.BreakerConfig{FailureThreshold: 5, Cooldown: 30 * time.Second}),
//	    recovery.WithAlertHook(alertFn),
//	)
//
//	err := mgr.Execute(ctx, "billing-api", func(ctx context.Context) error {
//	    return billing.Charge(ctx, invoice)
//	})
//
// Only retryable System/Integration errors are retried; Validation and
// BusinessRule errors are terminal. When the breaker for a key is open,
// Execute fails immediately with a System/service_unavailable record without
// invoking the operation.
//
// # Compensation
//
// Multi-step operations push an inverse action per completed step and run
// the stack in LIFO order when a later step fails:
//
//	comp := recovery.NewCompensationStack()
//	comp.Push(func(ctx context.Context) error { return repo.Delete(ctx, id) })
//	// ... later step fails ...
//	if err := comp.Run(ctx); err != nil { ... }
package recovery
