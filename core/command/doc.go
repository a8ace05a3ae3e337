// Package command provides the command bus at the center of the execution
// core: dispatch through a composable middleware pipeline, bounded undo/redo
// history, domain event staging, and a never-throw result boundary.
//
// Commands represent state-changing intents (RegisterUser, ChangePassword).
// Each command type is registered with a factory at bus construction time;
// the bus instantiates a fresh command per invocation, so instances are free
// to capture undo data during Execute without synchronization.
//
// # Quick Start
//
//	bus := command.NewBus(
//	    command.WithTimeout(10*time.Second),
//	    command.WithMiddleware(command.LoggingMiddleware(logger)),
//	    command.WithAuditSink(sink, audit.NewRedactor("password")),
//	)
//	bus.Register(func() command.Command { return auth.NewRegisterCommand(repo) })
//
//	res := bus.Execute(ctx, "RegisterUser", auth.RegisterInput{
//	    Email:    "user@example.com",
//	    Password: "Secret123!",
//	}, command.Metadata{ActorID: "admin-1"})
//	if !res.Success {
//	    return res.Error
//	}
//
// Execute never panics and never returns a raw error: every failure is
// normalized into a fault.Record embedded in the Result.
//
// # Pipeline Order
//
// For one invocation the pipeline is strictly sequential: validation, then
// every middleware Before hook in registration order, then the command's
// Execute, then every After hook in the same order. Any failure
// short-circuits to the OnError hooks in order. The audit middleware is
// always placed last so its record reflects the final outcome, and the
// Result is returned only after all hooks have completed.
//
// # Undo / Redo
//
// Commands implementing Undoable are recorded into a bounded LIFO history
// (default capacity 100) on successful execution. Bus.Undo reverses the most
// recent entry and moves it to the redo stack; Bus.Redo re-applies it. Any
// new successful execution clears the redo stack. Evicted entries are
// permanently non-undoable.
//
// # Concurrency
//
// A Bus is safe for concurrent use. History and subscriber state are
// mutex-serialized; ordering across concurrent invocations is not defined
// beyond each invocation's own sequence. Construct one bus per isolation
// domain (process-wide or per session); there are no package singletons.
package command
