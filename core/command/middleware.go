package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cmdkit/core/audit"
	"github.com/dmitrymomot/cmdkit/core/fault"
)

// Middleware exposes optional hooks wrapped around command execution. For a
// single invocation every Before hook runs in registration order, then the
// command executes, then every After hook runs in the same order. A failure
// anywhere short-circuits to the OnError hooks, also in registration order.
// Nil hooks are skipped.
type Middleware struct {
	// Name identifies the middleware in logs.
	Name string

	// Before runs ahead of execution. Returning an error aborts the
	// invocation before the command executes.
	Before func(ctx context.Context, exec *ExecContext, cmd Command, input any) error

	// After runs once the command has succeeded.
	After func(ctx context.Context, exec *ExecContext, cmd Command, input any, res Result)

	// OnError runs when validation, a Before hook, or execution failed.
	OnError func(ctx context.Context, exec *ExecContext, cmd Command, input any, rec *fault.Record)
}

// validationMiddleware runs the command's own Validate and short-circuits
// with a Validation record when issues exist, skipping execution entirely.
// The bus always places it first in the pipeline.
func validationMiddleware() Middleware {
	return Middleware{
		Name: "validation",
		Before: func(ctx context.Context, exec *ExecContext, cmd Command, input any) error {
			issues := cmd.Validate(input)
			if len(issues) == 0 {
				return nil
			}
			return fault.Validation(fault.CodeInvalidInput, "command input is invalid",
				fault.WithContext("issues", issues))
		},
	}
}

// LoggingMiddleware records start, completion, duration, and failures. It
// never alters control flow.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return Middleware{
		Name: "logging",
		Before: func(ctx context.Context, exec *ExecContext, cmd Command, input any) error {
			logger.InfoContext(ctx, "command started",
				slog.String("command", cmd.Name()),
				slog.String("command_id", exec.Meta().CommandID))
			return nil
		},
		After: func(ctx context.Context, exec *ExecContext, cmd Command, input any, res Result) {
			logger.InfoContext(ctx, "command completed",
				slog.String("command", cmd.Name()),
				slog.String("command_id", exec.Meta().CommandID),
				slog.Duration("duration", time.Since(exec.StartedAt())))
		},
		OnError: func(ctx context.Context, exec *ExecContext, cmd Command, input any, rec *fault.Record) {
			logger.ErrorContext(ctx, "command failed",
				slog.String("command", cmd.Name()),
				slog.String("command_id", exec.Meta().CommandID),
				slog.Duration("duration", time.Since(exec.StartedAt())),
				slog.String("error_id", rec.ID),
				slog.String("code", rec.Code),
				slog.String("error", rec.Message))
		},
	}
}

// AuditMiddleware emits exactly one sanitized audit record per invocation,
// success or failure. Sensitive input fields are redacted before the record
// leaves the middleware. Sink write failures are logged and never affect the
// command's outcome. The bus places this middleware last so the record
// reflects the final result, including errors raised by other middleware.
func AuditMiddleware(sink audit.Sink, redactor *audit.Redactor, logger *slog.Logger) Middleware {
	if redactor == nil {
		redactor = audit.NewRedactor()
	}
	write := func(ctx context.Context, exec *ExecContext, cmd Command, input any, outcome audit.Outcome, errorCode string) {
		meta := exec.Meta()
		rec := audit.Record{
			ID:            uuid.New().String(),
			CommandType:   cmd.Name(),
			ActorID:       meta.ActorID,
			CorrelationID: meta.CorrelationID,
			Timestamp:     meta.Timestamp,
			Duration:      time.Since(exec.StartedAt()),
			Outcome:       outcome,
			ErrorCode:     errorCode,
			Input:         redactor.Redact(input),
		}
		if err := sink.Write(ctx, rec); err != nil {
			logger.ErrorContext(ctx, "audit sink write failed",
				slog.String("command", cmd.Name()),
				slog.String("error", err.Error()))
		}
	}

	return Middleware{
		Name: "audit",
		After: func(ctx context.Context, exec *ExecContext, cmd Command, input any, res Result) {
			write(ctx, exec, cmd, input, audit.OutcomeSuccess, "")
		},
		OnError: func(ctx context.Context, exec *ExecContext, cmd Command, input any, rec *fault.Record) {
			write(ctx, exec, cmd, input, audit.OutcomeFailure, rec.Code)
		},
	}
}
