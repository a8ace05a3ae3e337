// Package redis provides Redis client initialization with retry logic and
// health checking, plus a Redis-backed audit sink.
//
// Connect validates the connection URL, establishes the client with
// exponential backoff, and verifies connectivity with a ping before
// returning. Healthcheck returns a ping function suitable for readiness
// probes.
//
// The AuditSink stores audit records in a capped Redis list, so the command
// bus can persist its trail without a relational store:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	sink := redis.NewAuditSink(client, redis.WithAuditKey("audit:commands"))
//	bus := command.NewBus(command.WithAuditSink(sink, nil))
//
// Both redis:// and rediss:// (TLS) URL schemes are supported.
package redis
