// Package postmark provides Postmark-backed email delivery for operational
// alerts.
//
// The client implements the recovery alert hook: critical-severity failures
// surfacing from the command bus are emailed to the configured alert address
// with the error's sanitized details.
//
// Usage:
//
//	var cfg postmark.Config
//	config.MustLoad(&cfg)
//
//	client := postmark.MustNewClient(cfg)
//	mgr := recovery.NewManager(
//		recovery.WithAlertHook(client.AlertHook(logger)),
//	)
//	bus := command.NewBus(command.WithRecoveryManager(mgr))
//
// Alert emails carry the error id, so an operator can correlate the page
// with the structured logs.
package postmark
