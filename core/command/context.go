package command

import (
	"sync"
	"time"

	"github.com/dmitrymomot/cmdkit/core/event"
)

// ExecContext carries invocation metadata and stages domain events during
// command execution. Staged events are published by the bus only after the
// command has succeeded; a failed execution discards them.
type ExecContext struct {
	meta      Metadata
	startedAt time.Time

	mu     sync.Mutex
	staged []event.Event
}

func newExecContext(meta Metadata) *ExecContext {
	return &ExecContext{
		meta:      meta,
		startedAt: time.Now(),
	}
}

// Meta returns the invocation metadata.
func (c *ExecContext) Meta() Metadata {
	return c.meta
}

// StartedAt returns when the pipeline for this invocation began.
func (c *ExecContext) StartedAt() time.Time {
	return c.startedAt
}

// Emit stages a domain event for publication after successful completion.
// The event name is derived from the payload type name.
func (c *ExecContext) Emit(payload any) {
	evt := event.New(payload, event.Meta{
		CommandID:     c.meta.CommandID,
		ActorID:       c.meta.ActorID,
		CorrelationID: c.meta.CorrelationID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged = append(c.staged, evt)
}

// checkpoint marks the current staged-event position for a later rollback.
func (c *ExecContext) checkpoint() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.staged)
}

// rollbackTo discards events staged after the given checkpoint. The bus uses
// this between retry attempts so a failed attempt leaves nothing behind for
// the attempt that eventually succeeds.
func (c *ExecContext) rollbackTo(mark int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mark >= 0 && mark <= len(c.staged) {
		c.staged = c.staged[:mark]
	}
}

// stagedEvents returns the events emitted so far, in emission order.
func (c *ExecContext) stagedEvents() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event.Event, len(c.staged))
	copy(out, c.staged)
	return out
}
