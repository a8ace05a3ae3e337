package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cmdkit/core/audit"
	"github.com/dmitrymomot/cmdkit/core/event"
	"github.com/dmitrymomot/cmdkit/core/fault"
	"github.com/dmitrymomot/cmdkit/core/recovery"
	"github.com/dmitrymomot/cmdkit/pkg/async"
)

// CommandUndone is published after a successful Undo as the compensating
// notification for the original command's events.
type CommandUndone struct {
	Command   string `json:"command"`
	CommandID string `json:"command_id"`
}

// CommandRedone is published after a successful Redo.
type CommandRedone struct {
	Command   string `json:"command"`
	CommandID string `json:"command_id"`
}

// Bus orchestrates command execution: registry dispatch, the middleware
// pipeline, undo/redo history, event publication, and error normalization.
// Each Bus owns its history and event subscriber registry; construct one per
// isolation domain.
type Bus struct {
	mu        sync.RWMutex
	factories map[string]Factory

	middleware    []Middleware
	auditSink     audit.Sink
	auditRedactor *audit.Redactor
	auditMw       *Middleware
	history       *history
	events        *event.Bus
	recovery      *recovery.Manager
	logger        *slog.Logger
	timeout       time.Duration

	executed atomic.Int64
	failed   atomic.Int64
}

// Stats provides observability counters for monitoring and debugging.
type Stats struct {
	Executed  int64
	Failed    int64
	UndoDepth int
	RedoDepth int
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithMiddleware appends user middleware to the pipeline. Validation always
// runs first and the audit middleware (when configured) always runs last,
// regardless of where these options appear.
func WithMiddleware(mw ...Middleware) BusOption {
	return func(b *Bus) {
		b.middleware = append(b.middleware, mw...)
	}
}

// WithAuditSink enables the audit middleware with the given sink and
// redactor. A nil redactor falls back to audit.DefaultSensitiveFields.
func WithAuditSink(sink audit.Sink, redactor *audit.Redactor) BusOption {
	return func(b *Bus) {
		b.auditSink = sink
		b.auditRedactor = redactor
	}
}

// WithEventBus replaces the internally created event bus, letting several
// command buses share one subscriber registry.
func WithEventBus(events *event.Bus) BusOption {
	return func(b *Bus) {
		if events != nil {
			b.events = events
		}
	}
}

// WithRecoveryManager wires the recovery layer: Recoverable commands execute
// under their dependency's circuit breaker and the manager's retry policy,
// and Critical-severity failures fire the manager's alert hook.
func WithRecoveryManager(mgr *recovery.Manager) BusOption {
	return func(b *Bus) {
		b.recovery = mgr
	}
}

// WithHistoryCapacity bounds the undo stack. Defaults to
// DefaultHistoryCapacity.
func WithHistoryCapacity(capacity int) BusOption {
	return func(b *Bus) {
		b.history = newHistory(capacity)
	}
}

// WithTimeout sets the maximum duration for validation, before hooks, and
// execution of a single command. Zero disables the deadline. A timed-out
// command yields a System/timeout failure; partial side effects are the
// command's own responsibility to compensate.
func WithTimeout(d time.Duration) BusOption {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithBusLogger sets the logger. If not set, slog.Default() is used.
func WithBusLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithCommands registers command factories at construction time.
func WithCommands(factories ...Factory) BusOption {
	return func(b *Bus) {
		for _, f := range factories {
			b.register(f)
		}
	}
}

// NewBus creates a command bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		factories: make(map[string]Factory),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.history == nil {
		b.history = newHistory(DefaultHistoryCapacity)
	}
	if b.events == nil {
		b.events = event.NewBus(event.WithLogger(b.logger))
	}
	if b.auditSink != nil {
		mw := AuditMiddleware(b.auditSink, b.auditRedactor, b.logger)
		b.auditMw = &mw
	}
	return b
}

// Register adds a command factory. The command type is taken from a fresh
// instance's Name. Panics on duplicate registration, mirroring the intent
// that wiring mistakes surface at startup rather than at dispatch time.
func (b *Bus) Register(factory Factory) {
	b.register(factory)
}

func (b *Bus) register(factory Factory) {
	name := factory().Name()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.factories[name]; exists {
		panic(fmt.Sprintf("command already registered: %s", name))
	}
	b.factories[name] = factory
}

// Events exposes the bus-owned event bus for subscribing to domain events.
func (b *Bus) Events() *event.Bus {
	return b.events
}

// Execute dispatches a command through the middleware pipeline and returns a
// well-formed Result. It never panics and never returns a raw error: every
// failure is normalized into a fault.Record. On success the command's staged
// events are published (and awaited) before Execute returns.
func (b *Bus) Execute(ctx context.Context, commandType string, input any, meta Metadata) Result {
	meta = normalizeMeta(meta)

	b.mu.RLock()
	factory, ok := b.factories[commandType]
	b.mu.RUnlock()
	if !ok {
		b.failed.Add(1)
		return fail(fault.New(fault.CategorySystem, fault.CodeUnknownCommand,
			fmt.Sprintf("no command registered for type %q", commandType),
			fault.WithSeverity(fault.SeverityHigh)))
	}

	cmd := factory()
	exec := newExecContext(meta)
	pipeline := b.pipeline()

	output, err := b.runWithDeadline(ctx, pipeline, cmd, exec, input)
	if err != nil {
		rec := fault.Normalize(err)
		b.runOnError(ctx, pipeline, exec, cmd, input, rec)
		if b.recovery != nil {
			b.recovery.Alert(ctx, rec)
		}
		b.failed.Add(1)
		return fail(rec)
	}

	res := succeed(output)
	b.runAfter(ctx, pipeline, exec, cmd, input, res)

	if undoable, ok := cmd.(Undoable); ok {
		b.history.record(&historyEntry{
			cmd:        undoable,
			input:      input,
			meta:       meta,
			recordedAt: time.Now(),
		})
	} else {
		// Non-undoable successes still supersede undone state.
		b.history.clearRedo()
	}

	b.publishStaged(ctx, exec)
	b.executed.Add(1)
	return res
}

// Undo reverses the most recent undo-capable execution and moves it to the
// redo stack. A failed undo leaves the entry in place so it can be retried.
func (b *Bus) Undo(ctx context.Context) Result {
	entry, rec := b.history.popUndo()
	if rec != nil {
		return fail(rec)
	}

	exec := newExecContext(entry.meta)
	if err := safeUndo(ctx, entry.cmd, exec); err != nil {
		b.history.pushUndo(entry)
		return fail(fault.Normalize(err))
	}

	b.history.pushRedo(entry)
	exec.Emit(CommandUndone{Command: entry.cmd.Name(), CommandID: entry.meta.CommandID})
	b.publishStaged(ctx, exec)
	return succeed(nil)
}

// Redo re-applies the most recently undone command. Commands without an
// explicit Redo are re-executed with their original input. Fails with a
// not_available record when the redo stack is empty.
func (b *Bus) Redo(ctx context.Context) Result {
	entry, rec := b.history.popRedo()
	if rec != nil {
		return fail(rec)
	}

	exec := newExecContext(entry.meta)
	output, err := safeRedo(ctx, entry, exec)
	if err != nil {
		b.history.pushRedo(entry)
		return fail(fault.Normalize(err))
	}

	b.history.pushUndo(entry)
	exec.Emit(CommandRedone{Command: entry.cmd.Name(), CommandID: entry.meta.CommandID})
	b.publishStaged(ctx, exec)
	return succeed(output)
}

// History returns summaries of the undo stack, oldest first.
func (b *Bus) History() []HistorySummary {
	return b.history.snapshot()
}

// Stats returns execution counters and history depths.
func (b *Bus) Stats() Stats {
	undo, redo := b.history.lengths()
	return Stats{
		Executed:  b.executed.Load(),
		Failed:    b.failed.Load(),
		UndoDepth: undo,
		RedoDepth: redo,
	}
}

// pipeline assembles the effective middleware chain: validation first, user
// middleware in registration order, audit last. Validation must precede
// execution and audit must observe the final outcome.
func (b *Bus) pipeline() []Middleware {
	chain := make([]Middleware, 0, len(b.middleware)+2)
	chain = append(chain, validationMiddleware())
	chain = append(chain, b.middleware...)
	if b.auditMw != nil {
		chain = append(chain, *b.auditMw)
	}
	return chain
}

// runWithDeadline executes the pre-execution pipeline and the command,
// bounded by the configured timeout. The timed-out goroutine may still be
// running when this returns; its output and staged events are discarded.
func (b *Bus) runWithDeadline(ctx context.Context, pipeline []Middleware, cmd Command, exec *ExecContext, input any) (any, error) {
	if b.timeout <= 0 {
		return b.runPipeline(ctx, pipeline, cmd, exec, input)
	}

	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var output any
	fut := async.Exec(cctx, input, func(ctx context.Context, in any) error {
		out, err := b.runPipeline(ctx, pipeline, cmd, exec, in)
		if err != nil {
			return err
		}
		output = out
		return nil
	})

	if err := fut.AwaitWithTimeout(b.timeout); err != nil {
		if errors.Is(err, async.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fault.Timeout(fmt.Sprintf("command %s exceeded the %s deadline", cmd.Name(), b.timeout))
		}
		return nil, err
	}
	return output, nil
}

// runPipeline runs before hooks and the command's Execute sequentially with
// panic recovery. Recoverable commands execute under the recovery manager.
func (b *Bus) runPipeline(ctx context.Context, pipeline []Middleware, cmd Command, exec *ExecContext, input any) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fault.New(fault.CategorySystem, fault.CodePanic,
				fmt.Sprintf("command %s panicked: %v", cmd.Name(), r),
				fault.WithSeverity(fault.SeverityCritical))
		}
	}()

	for _, mw := range pipeline {
		if mw.Before == nil {
			continue
		}
		if err := mw.Before(ctx, exec, cmd, input); err != nil {
			return nil, err
		}
	}

	execute := func(ctx context.Context) error {
		mark := exec.checkpoint()
		out, execErr := cmd.Execute(ctx, exec, input)
		if execErr != nil {
			exec.rollbackTo(mark)
			return execErr
		}
		output = out
		return nil
	}

	if b.recovery != nil {
		if rc, ok := cmd.(Recoverable); ok && rc.DependencyKey() != "" {
			return output, b.recovery.Execute(ctx, rc.DependencyKey(), execute)
		}
	}
	return output, execute(ctx)
}

func (b *Bus) runAfter(ctx context.Context, pipeline []Middleware, exec *ExecContext, cmd Command, input any, res Result) {
	for _, mw := range pipeline {
		if mw.After != nil {
			mw.After(ctx, exec, cmd, input, res)
		}
	}
}

func (b *Bus) runOnError(ctx context.Context, pipeline []Middleware, exec *ExecContext, cmd Command, input any, rec *fault.Record) {
	for _, mw := range pipeline {
		if mw.OnError != nil {
			mw.OnError(ctx, exec, cmd, input, rec)
		}
	}
}

// publishStaged delivers staged events. Delivery failures are logged and do
// not alter the already-determined result.
func (b *Bus) publishStaged(ctx context.Context, exec *ExecContext) {
	for _, evt := range exec.stagedEvents() {
		if err := b.events.Publish(ctx, evt); err != nil {
			b.logger.ErrorContext(ctx, "event delivery failed",
				slog.String("event", evt.Name),
				slog.String("event_id", evt.ID),
				slog.String("error", err.Error()))
		}
	}
}

func safeUndo(ctx context.Context, cmd Undoable, exec *ExecContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fault.New(fault.CategorySystem, fault.CodePanic,
				fmt.Sprintf("undo of %s panicked: %v", cmd.Name(), r),
				fault.WithSeverity(fault.SeverityCritical))
		}
	}()
	return cmd.Undo(ctx, exec)
}

func safeRedo(ctx context.Context, entry *historyEntry, exec *ExecContext) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fault.New(fault.CategorySystem, fault.CodePanic,
				fmt.Sprintf("redo of %s panicked: %v", entry.cmd.Name(), r),
				fault.WithSeverity(fault.SeverityCritical))
		}
	}()
	if redoable, ok := entry.cmd.(Redoable); ok {
		return redoable.Redo(ctx, exec)
	}
	return entry.cmd.Execute(ctx, exec, entry.input)
}

// normalizeMeta fills in generated defaults so downstream consumers can rely
// on metadata being present.
func normalizeMeta(meta Metadata) Metadata {
	if meta.CommandID == "" {
		meta.CommandID = uuid.New().String()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	return meta
}
