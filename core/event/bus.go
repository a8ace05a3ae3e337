package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Handler processes a single event. Handlers may perform I/O; Publish awaits
// each handler before invoking the next.
type Handler interface {
	Handle(ctx context.Context, evt Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Token identifies a subscription for later removal.
type Token string

type subscription struct {
	token   Token
	handler Handler
}

// Bus routes published events to subscribed handlers. The zero value is not
// usable; construct with NewBus. All methods are safe for concurrent use.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string][]subscription
	byToken map[Token]string
	logger  *slog.Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used for handler failure reporting.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBus creates an event bus with an empty subscriber registry.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs:    make(map[string][]subscription),
		byToken: make(map[Token]string),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for the given event name and returns a token
// for unsubscribing. Handlers run in subscription order.
func (b *Bus) Subscribe(name string, handler Handler) Token {
	token := Token(uuid.New().String())

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[name] = append(b.subs[name], subscription{token: token, handler: handler})
	b.byToken[token] = name
	return token
}

// SubscribeFunc registers a plain function as a handler.
func (b *Bus) SubscribeFunc(name string, fn HandlerFunc) Token {
	return b.Subscribe(name, fn)
}

// Unsubscribe removes the subscription identified by token. Unknown tokens
// are ignored.
func (b *Bus) Unsubscribe(token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name, ok := b.byToken[token]
	if !ok {
		return
	}
	delete(b.byToken, token)

	subs := b.subs[name]
	for i, s := range subs {
		if s.token == token {
			b.subs[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

// Publish delivers the event to all handlers subscribed to its name, in
// subscription order, awaiting each before invoking the next. Handler
// failures and panics are captured per handler, logged, and aggregated into
// the returned error; they never prevent remaining handlers from running.
// Publishers that must not fail on consumer errors may ignore the returned
// error after logging.
func (b *Bus) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs[evt.Name]))
	copy(subs, b.subs[evt.Name])
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := safeHandle(ctx, s.handler, evt); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				slog.String("event", evt.Name),
				slog.String("event_id", evt.ID),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("handler for %s failed: %w", evt.Name, err))
		}
	}
	return errors.Join(errs...)
}

// SubscriberCount reports the number of handlers subscribed to an event name.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

// safeHandle executes a handler with panic recovery so one misbehaving
// subscriber cannot take down the publisher.
func safeHandle(ctx context.Context, handler Handler, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, evt)
}
