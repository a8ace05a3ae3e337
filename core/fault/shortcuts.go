package fault

import "fmt"

// Validation builds a terminal Validation-category record. Validation errors
// are never retried by the recovery layer.
func Validation(code, message string, opts ...Option) *Record {
	opts = append([]Option{WithSeverity(SeverityLow)}, opts...)
	return New(CategoryValidation, code, message, opts...)
}

// BusinessRule builds a terminal BusinessRule-category record.
func BusinessRule(code, message string, opts ...Option) *Record {
	return New(CategoryBusinessRule, code, message, opts...)
}

// Authentication builds an Authentication-category record.
func Authentication(code, message string, opts ...Option) *Record {
	return New(CategoryAuthentication, code, message, opts...)
}

// Authorization builds an Authorization-category record.
func Authorization(code, message string, opts ...Option) *Record {
	return New(CategoryAuthorization, code, message, opts...)
}

// NotFound reports a missing entity by name.
func NotFound(entity string, opts ...Option) *Record {
	return New(CategoryBusinessRule, CodeNotFound, fmt.Sprintf("%s not found", entity), opts...)
}

// Conflict reports a uniqueness or state conflict.
func Conflict(message string, opts ...Option) *Record {
	return New(CategoryBusinessRule, CodeConflict, message, opts...)
}

// Timeout reports a command execution that exceeded its deadline.
func Timeout(message string, opts ...Option) *Record {
	opts = append([]Option{WithSeverity(SeverityHigh), Retryable()}, opts...)
	return New(CategorySystem, CodeTimeout, message, opts...)
}

// ServiceUnavailable reports a dependency rejected by an open circuit breaker
// or otherwise known to be down.
func ServiceUnavailable(dependency string, opts ...Option) *Record {
	opts = append([]Option{
		WithSeverity(SeverityHigh),
		WithContext("dependency", dependency),
	}, opts...)
	return New(CategorySystem, CodeServiceUnavailable,
		fmt.Sprintf("dependency %s is unavailable", dependency), opts...)
}
