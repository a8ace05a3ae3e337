package recovery

import (
	"context"
	"errors"
	"sync"
)

// CompensationStack accumulates inverse actions for the completed steps of a
// multi-step operation. When a later step fails, Run executes the stack in
// LIFO order to counteract the partial effects.
type CompensationStack struct {
	mu  sync.Mutex
	fns []Operation
}

// NewCompensationStack creates an empty stack.
func NewCompensationStack() *CompensationStack {
	return &CompensationStack{}
}

// Push records the inverse action for a completed step.
func (s *CompensationStack) Push(fn Operation) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

// Len reports the number of pending compensations.
func (s *CompensationStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// Run executes all compensations in reverse push order and clears the stack.
// Every compensation runs even if earlier ones fail; failures are aggregated
// into the returned error.
func (s *CompensationStack) Run(ctx context.Context) error {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()

	var errs []error
	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
