// Package event provides an in-process publish/subscribe bus for domain
// notifications emitted by command execution.
//
// Publishing is synchronous: all handlers subscribed to an event name run in
// subscription order and Publish returns only after the last one completes,
// so downstream consumers (audit, analytics) have processed the event by the
// time the originating call returns. A handler that fails or panics is
// isolated: the failure is captured, remaining handlers still run, and the
// aggregated error is returned for logging without affecting the publisher's
// own outcome.
//
// # Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	token := bus.SubscribeFunc("UserRegistered", func(ctx context.Context, evt event.Event) error {
//	    payload := evt.Payload.(UserRegistered)
//	    return mailer.SendWelcome(ctx, payload.Email)
//	})
//	defer bus.Unsubscribe(token)
//
//	err := bus.Publish(ctx, event.New(UserRegistered{Email: "user@example.com"}, meta))
//
// Event names are derived from the payload type name, following the
// convention of naming payload structs after the fact they describe
// (UserRegistered, PasswordChanged).
//
// There is no durability guarantee: events not fully delivered are lost on
// process termination.
package event
