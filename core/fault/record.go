package fault

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Category classifies an error by the subsystem responsible for it.
type Category string

const (
	CategoryAuthentication Category = "authentication"
	CategoryAuthorization  Category = "authorization"
	CategoryValidation     Category = "validation"
	CategoryBusinessRule   Category = "business_rule"
	CategorySystem         Category = "system"
	CategoryIntegration    Category = "integration"
)

// Severity grades the operational impact of an error. Critical records
// trigger the alert hook regardless of recovery outcome.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Record is the single error shape crossing the command bus boundary.
// Records are immutable after construction; option functions run inside New.
type Record struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	Category  Category       `json:"category"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	Cause     *Record        `json:"cause,omitempty"`
	Retryable bool           `json:"retryable"`
}

// Option customizes a Record during construction.
type Option func(*Record)

// New creates a Record with a generated id and SeverityMedium by default.
func New(category Category, code, message string, opts ...Option) *Record {
	r := &Record{
		ID:       uuid.New().String(),
		Code:     code,
		Category: category,
		Severity: SeverityMedium,
		Message:  message,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithSeverity overrides the default SeverityMedium.
func WithSeverity(s Severity) Option {
	return func(r *Record) {
		r.Severity = s
	}
}

// WithContext attaches a single context value, allocating the map lazily.
func WithContext(key string, value any) Option {
	return func(r *Record) {
		if r.Context == nil {
			r.Context = make(map[string]any)
		}
		r.Context[key] = value
	}
}

// WithCause records the underlying error, normalizing it if needed.
func WithCause(err error) Option {
	return func(r *Record) {
		r.Cause = Normalize(err)
	}
}

// Retryable marks the record as safe to retry.
func Retryable() Option {
	return func(r *Record) {
		r.Retryable = true
	}
}

// Error implements the error interface.
func (r *Record) Error() string {
	return fmt.Sprintf("%s/%s: %s", r.Category, r.Code, r.Message)
}

// Unwrap exposes the cause chain to errors.Is and errors.As.
func (r *Record) Unwrap() error {
	if r.Cause == nil {
		return nil
	}
	return r.Cause
}

// Is matches records by category and code, ignoring id and message, so
// errors.Is works across independently constructed records.
func (r *Record) Is(target error) bool {
	var other *Record
	if !errors.As(target, &other) {
		return false
	}
	return r.Category == other.Category && r.Code == other.Code
}

// UserMessage returns a message safe to surface to end users. High and
// Critical severities get a generic message; the record id stays server-side
// for support correlation.
func (r *Record) UserMessage() string {
	switch r.Severity {
	case SeverityHigh, SeverityCritical:
		return "Something went wrong. Please try again later."
	default:
		return r.Message
	}
}

// Normalize converts any error into a *Record. A nil error returns nil, an
// existing *Record (possibly wrapped) passes through unchanged, anything else
// becomes a System/internal_error record with the original preserved in the
// message.
func Normalize(err error) *Record {
	if err == nil {
		return nil
	}
	var rec *Record
	if errors.As(err, &rec) {
		return rec
	}
	return New(CategorySystem, CodeInternal, err.Error(), WithSeverity(SeverityHigh))
}

// IsRetryable reports whether err normalizes to a retryable record.
func IsRetryable(err error) bool {
	rec := Normalize(err)
	return rec != nil && rec.Retryable
}
