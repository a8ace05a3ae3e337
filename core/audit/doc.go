// Package audit defines the sanitized audit trail emitted for every command
// execution.
//
// The audit middleware produces exactly one Record per execution, covering
// both success and failure outcomes. Before a record leaves the middleware,
// its input copy passes through a Redactor that masks configured sensitive
// fields (password, secret, token by default), so credentials never reach an
// audit store in plaintext.
//
// Persistence is the sink's responsibility. The package ships a MemorySink
// for tests and development; integration/database/redis provides a
// Redis-backed sink for production use.
//
//	sink := audit.NewMemorySink()
//	redactor := audit.NewRedactor("password", "card_number")
//
//	rec := audit.Record{
//	    CommandType: "RegisterUser",
//	    Outcome:     audit.OutcomeSuccess,
//	    Input:       redactor.Redact(input),
//	}
//	_ = sink.Write(ctx, rec)
package audit
