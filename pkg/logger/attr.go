// Package logger provides slog attribute helpers for consistent structured
// logging keys across the codebase. Helpers return an empty attr for nil or
// zero inputs, which slog drops from the output.
package logger

import (
	"log/slog"
	"time"
)

// Error returns an "error" attr, or an empty attr for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple errors under an "errors" key, skipping nils.
// Returns an empty attr when no non-nil errors remain.
func Errors(errs ...error) slog.Attr {
	attrs := make([]any, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			attrs = append(attrs, slog.Any("err", err))
		}
	}
	if len(attrs) == 0 {
		return slog.Attr{}
	}
	return slog.Group("errors", attrs...)
}

// Duration returns a "duration" attr.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed returns a "duration" attr measured from start until now.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("duration", time.Since(start))
}

// ID returns an attr with the given key, or an empty attr for nil values.
func ID(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// CommandName returns a "command" attr, empty when the name is blank.
func CommandName(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("command", name)
}

// CorrelationID returns a "correlation_id" attr, empty when blank.
func CorrelationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("correlation_id", id)
}

// Group nests attrs under a single key.
func Group(key string, attrs ...slog.Attr) slog.Attr {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return slog.Group(key, args...)
}
