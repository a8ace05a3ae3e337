// Package fault provides the structured error taxonomy used across the
// command execution core.
//
// Every error that crosses the bus boundary is represented as a *Record with
// a unique id (for support correlation), a category, a severity, a
// machine-readable code, a human message, and arbitrary context. Records form
// a cause chain, participate in errors.Is/errors.As, and carry a retryable
// flag consumed by the recovery layer.
//
// # Building Records
//
// Use New with functional options for full control:
//
//	rec := fault.New(fault.CategoryIntegration, fault.CodeServiceUnavailable,
//	    "payment provider unreachable",
//	    fault.WithSeverity(fault.SeverityHigh),
//	    fault.WithContext("provider", "stripe"),
//	    fault.Retryable(),
//	)
//
// Category shortcuts cover the common cases:
//
//	fault.Validation(fault.CodeInvalidInput, "email is malformed")
//	fault.NotFound("user")
//	fault.Conflict("email already registered")
//
// # Normalization
//
// Normalize converts any error into a *Record so callers of the command bus
// only ever observe one error shape:
//
//	rec := fault.Normalize(err) // *Record passes through, others wrapped as System
//
// # Safe Surfacing
//
// UserMessage returns the record's message for Low/Medium severities and a
// generic message for High/Critical ones, so internal detail is never echoed
// to end users while the record id remains available for support correlation.
package fault
