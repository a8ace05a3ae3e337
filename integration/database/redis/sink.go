package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/cmdkit/core/audit"
)

const (
	defaultAuditKey    = "audit:commands"
	defaultAuditMaxLen = 10000
)

// AuditSink persists audit records in a capped Redis list, newest first.
// Writes push and trim in one pipeline, so the list never grows past the
// configured maximum.
type AuditSink struct {
	client *redis.Client
	key    string
	maxLen int64
}

// AuditSinkOption configures an AuditSink.
type AuditSinkOption func(*AuditSink)

// WithAuditKey overrides the Redis list key.
func WithAuditKey(key string) AuditSinkOption {
	return func(s *AuditSink) {
		if key != "" {
			s.key = key
		}
	}
}

// WithAuditMaxLen bounds the list length. Zero or negative disables
// trimming.
func WithAuditMaxLen(n int64) AuditSinkOption {
	return func(s *AuditSink) {
		s.maxLen = n
	}
}

// NewAuditSink creates a sink writing to the given client.
func NewAuditSink(client *redis.Client, opts ...AuditSinkOption) *AuditSink {
	s := &AuditSink{
		client: client,
		key:    defaultAuditKey,
		maxLen: defaultAuditMaxLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write implements audit.Sink.
func (s *AuditSink) Write(ctx context.Context, rec audit.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, payload)
	if s.maxLen > 0 {
		pipe.LTrim(ctx, s.key, 0, s.maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (s *AuditSink) Recent(ctx context.Context, n int64) ([]audit.Record, error) {
	if n <= 0 {
		return nil, nil
	}

	raw, err := s.client.LRange(ctx, s.key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read audit records: %w", err)
	}

	records := make([]audit.Record, 0, len(raw))
	for _, item := range raw {
		var rec audit.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode audit record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
