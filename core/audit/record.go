package audit

import (
	"context"
	"sync"
	"time"
)

// Outcome states whether the audited command succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Record captures a command's metadata and outcome with sanitized input.
type Record struct {
	ID            string         `json:"id"`
	CommandType   string         `json:"command_type"`
	ActorID       string         `json:"actor_id,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	Duration      time.Duration  `json:"duration"`
	Outcome       Outcome        `json:"outcome"`
	ErrorCode     string         `json:"error_code,omitempty"`
	Input         map[string]any `json:"input,omitempty"`
}

// Sink receives audit records. Implementations own persistence; a failing
// sink must not affect the audited command's outcome, so callers log and
// continue on write errors.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ctx context.Context, rec Record) error

// Write implements Sink.
func (f SinkFunc) Write(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// MemorySink retains records in memory. Intended for tests and development.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write implements Sink.
func (s *MemorySink) Write(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of all written records in write order.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
