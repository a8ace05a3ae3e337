package recovery

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker state machine position.
type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half_open"
)

// BreakerConfig controls circuit breaker transitions.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that trips the
	// breaker from Closed to Open.
	FailureThreshold int `env:"RECOVERY_BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	// Cooldown is how long the breaker stays Open before allowing HalfOpen
	// trial calls.
	Cooldown time.Duration `env:"RECOVERY_BREAKER_COOLDOWN" envDefault:"30s"`
	// HalfOpenMax caps concurrent trial calls while HalfOpen.
	HalfOpenMax int `env:"RECOVERY_BREAKER_HALF_OPEN_MAX" envDefault:"1"`
}

// DefaultBreakerConfig is applied when a Manager is built without an
// explicit breaker configuration.
var DefaultBreakerConfig = BreakerConfig{
	FailureThreshold: 5,
	Cooldown:         30 * time.Second,
	HalfOpenMax:      1,
}

// breaker holds per-dependency circuit state. All transitions happen under
// the mutex so concurrent callers observe a consistent state.
type breaker struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	state    BreakerState
	failures int
	openedAt time.Time
	trials   int
	now      func() time.Time
}

func newBreaker(cfg BreakerConfig, now func() time.Time) *breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultBreakerConfig.FailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBreakerConfig.Cooldown
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = DefaultBreakerConfig.HalfOpenMax
	}
	if now == nil {
		now = time.Now
	}
	return &breaker{cfg: cfg, state: StateClosed, now: now}
}

// allow reports whether a call may proceed, transitioning Open breakers to
// HalfOpen once the cooldown has elapsed.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return false
		}
		b.state = StateHalfOpen
		b.trials = 0
		fallthrough
	default: // StateHalfOpen
		if b.trials >= b.cfg.HalfOpenMax {
			return false
		}
		b.trials++
		return true
	}
}

// success resets the breaker. A HalfOpen trial that succeeds closes the
// circuit; a Closed breaker clears its consecutive-failure counter.
func (b *breaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.trials = 0
}

// failure advances the breaker. A HalfOpen trial failure reopens the circuit
// and restarts the cooldown; consecutive Closed failures at the threshold
// trip it.
func (b *breaker) failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.state = StateOpen
		b.openedAt = b.now()
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.state = StateOpen
			b.openedAt = b.now()
		}
	}
}

func (b *breaker) currentState() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		return StateHalfOpen
	}
	return b.state
}
