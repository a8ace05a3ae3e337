package redis

import "errors"

// Sentinel errors returned by Connect and Healthcheck. Callers branch on
// them with errors.Is to tell configuration problems (fail fast) apart from
// readiness problems (retry or wait).
var (
	ErrEmptyConnectionURL   = errors.New("empty redis connection URL")
	ErrInvalidConnectionURL = errors.New("invalid redis connection URL")
	ErrNotReady             = errors.New("redis did not become ready before the retry budget was spent")
	ErrHealthcheckFailed    = errors.New("redis healthcheck failed")
)
