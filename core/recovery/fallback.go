package recovery

import "context"

// WithFallback wraps op so that a failure of the primary path runs the
// fallback operation instead. The fallback's error, if any, is returned; a
// nil fallback leaves op unchanged.
func WithFallback(op, fallback Operation) Operation {
	if fallback == nil {
		return op
	}
	return func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			return fallback(ctx)
		}
		return nil
	}
}

// FallbackValue runs primary and substitutes the predetermined safe value
// when it fails. The primary's error is not returned; callers that need it
// should use WithFallback.
func FallbackValue[T any](ctx context.Context, primary func(ctx context.Context) (T, error), fallback T) T {
	v, err := primary(ctx)
	if err != nil {
		return fallback
	}
	return v
}
