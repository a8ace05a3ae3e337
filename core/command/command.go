package command

import (
	"context"
	"time"

	"github.com/dmitrymomot/cmdkit/core/fault"
)

// Command is a named unit of work with validation and execution logic.
// Implementations are instantiated per invocation by the bus and must not
// touch the history stack or the event subscriber registry; they interact
// with the outside world only through their injected dependencies and the
// ExecContext.
type Command interface {
	// Name returns the command type identifier used for registration and
	// dispatch.
	Name() string

	// Validate inspects the input and returns all issues found. An empty
	// slice means the input is acceptable.
	Validate(input any) []Issue

	// Execute performs the command's effect and returns its output. Undoable
	// implementations capture the minimal inverse data (a created id, a
	// previous value) here, at execution time.
	Execute(ctx context.Context, exec *ExecContext, input any) (any, error)
}

// Undoable commands can invert their effect after a successful execution.
type Undoable interface {
	Command

	// Undo reverses the effect captured during Execute.
	Undo(ctx context.Context, exec *ExecContext) error
}

// Redoable commands re-apply their effect after an undo without going
// through Execute again. Undoable commands that do not implement Redoable
// are re-executed with their original input instead.
type Redoable interface {
	Undoable

	// Redo re-applies the previously undone effect.
	Redo(ctx context.Context, exec *ExecContext) (any, error)
}

// Recoverable commands name the external dependency their execution calls
// into. When the bus has a recovery manager, Execute runs under that
// dependency's circuit breaker and the manager's retry policy.
type Recoverable interface {
	DependencyKey() string
}

// Factory creates a fresh command instance for one invocation.
type Factory func() Command

// Issue describes a single validation problem.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Metadata identifies a command invocation for audit and tracing. Zero
// values are filled in by the bus: CommandID gets a generated uuid,
// Timestamp the current time.
type Metadata struct {
	CommandID     string    `json:"command_id"`
	ActorID       string    `json:"actor_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Result is the only shape returned by the bus. Success is always set
// explicitly; exactly one of Data and Error carries a value.
type Result struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *fault.Record `json:"error,omitempty"`
}

func succeed(data any) Result {
	return Result{Success: true, Data: data}
}

func fail(rec *fault.Record) Result {
	return Result{Success: false, Error: rec}
}
