package recovery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/cmdkit/core/fault"
)

// AlertFunc receives Critical-severity error records. It is invoked
// synchronously, independent of whether recovery succeeds; implementations
// that page humans should debounce internally.
type AlertFunc func(ctx context.Context, rec *fault.Record)

// Manager coordinates recovery strategies. It owns circuit breaker state
// keyed by dependency name; every caller referencing the same key shares the
// same breaker. Construct one Manager per process (or per isolation domain)
// and pass it in explicitly; there is no package-level instance.
type Manager struct {
	mu       sync.Mutex
	breakers map[string]*breaker

	retry      RetryPolicy
	breakerCfg BreakerConfig
	alert      AlertFunc
	logger     *slog.Logger
	now        func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) ManagerOption {
	return func(m *Manager) {
		m.retry = p
	}
}

// WithBreakerConfig overrides DefaultBreakerConfig for breakers created
// after construction.
func WithBreakerConfig(cfg BreakerConfig) ManagerOption {
	return func(m *Manager) {
		m.breakerCfg = cfg
	}
}

// WithAlertHook sets the out-of-band alert callback for Critical records.
func WithAlertHook(fn AlertFunc) ManagerOption {
	return func(m *Manager) {
		m.alert = fn
	}
}

// WithManagerLogger sets the logger. If not set, slog.Default() is used.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source used by circuit breakers. Tests use
// this to step through cooldown windows without sleeping.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a recovery manager with the given options.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		breakers:   make(map[string]*breaker),
		retry:      DefaultRetryPolicy,
		breakerCfg: DefaultBreakerConfig,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs op under the manager's retry policy and, when key is
// non-empty, the circuit breaker for that dependency key. When the breaker
// is open the operation is not invoked and a System/service_unavailable
// record is returned immediately. Critical-severity failures fire the alert
// hook before Execute returns.
func (m *Manager) Execute(ctx context.Context, key string, op Operation) error {
	guarded := op
	if key != "" {
		b := m.breaker(key)
		guarded = func(ctx context.Context) error {
			if !b.allow() {
				return fault.ServiceUnavailable(key)
			}
			err := op(ctx)
			if err != nil {
				// Only infrastructure failures count against the breaker;
				// terminal business outcomes say nothing about dependency
				// health.
				if rec := fault.Normalize(err); rec.Category == fault.CategorySystem || rec.Category == fault.CategoryIntegration {
					b.failure()
				}
				return err
			}
			b.success()
			return nil
		}
	}

	err := Retry(ctx, m.retry, guarded)
	if err != nil {
		rec := fault.Normalize(err)
		m.logger.ErrorContext(ctx, "recovery exhausted",
			slog.String("dependency", key),
			slog.String("error_id", rec.ID),
			slog.String("code", rec.Code),
			slog.String("error", rec.Message))
		m.Alert(ctx, rec)
		return err
	}
	return nil
}

// Alert fires the alert hook for Critical-severity records. Safe to call
// with nil records or without a configured hook.
func (m *Manager) Alert(ctx context.Context, rec *fault.Record) {
	if rec == nil || rec.Severity != fault.SeverityCritical || m.alert == nil {
		return
	}
	m.alert(ctx, rec)
}

// BreakerState reports the current state of the breaker for a dependency
// key. Keys that have never been used report StateClosed.
func (m *Manager) BreakerState(key string) BreakerState {
	m.mu.Lock()
	b, ok := m.breakers[key]
	m.mu.Unlock()
	if !ok {
		return StateClosed
	}
	return b.currentState()
}

// breaker returns the shared breaker for key, creating it on first use.
func (m *Manager) breaker(key string) *breaker {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.breakers[key]
	if !ok {
		b = newBreaker(m.breakerCfg, m.now)
		m.breakers[key] = b
	}
	return b
}
