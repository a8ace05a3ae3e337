package fault

// Machine-readable error codes shared across the core. Domain packages may
// define their own codes; these cover the bus, history, and recovery layers.
const (
	// CodeInternal marks unclassified failures wrapped by Normalize.
	CodeInternal = "internal_error"

	// CodeTimeout marks command executions that exceeded the bus deadline.
	CodeTimeout = "timeout"

	// CodeServiceUnavailable marks calls rejected by an open circuit breaker
	// or a dependency that is known to be down.
	CodeServiceUnavailable = "service_unavailable"

	// CodeNotFound and CodeConflict mirror the repository port semantics.
	CodeNotFound = "not_found"
	CodeConflict = "conflict"

	// CodeInvalidInput marks validation issues reported by a command.
	CodeInvalidInput = "invalid_input"

	// CodeUnknownCommand marks dispatches for an unregistered command type.
	CodeUnknownCommand = "unknown_command"

	// History failure codes.
	CodeNotUndoable      = "not_undoable"
	CodeNotAvailable     = "not_available"
	CodeHistoryExhausted = "history_exhausted"

	// CodePanic marks panics recovered at the bus boundary.
	CodePanic = "panic"
)
