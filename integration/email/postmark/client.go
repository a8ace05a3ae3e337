package postmark

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"regexp"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/cmdkit/core/fault"
	"github.com/dmitrymomot/cmdkit/core/recovery"
)

var (
	ErrInvalidConfig     = errors.New("invalid postmark config")
	ErrFailedToSendEmail = errors.New("failed to send email")
)

// emailRegex is a simple regex for validating email addresses.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Client sends operational alert emails through Postmark's transactional
// API.
type Client struct {
	client *postmark.Client
	config Config
}

// New creates a Postmark-backed alert client. All tokens and addresses are
// required so misconfiguration surfaces at startup instead of at the first
// critical failure.
func New(cfg Config) (*Client, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if !isValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if !isValidEmail(cfg.AlertEmail) {
		return nil, fmt.Errorf("%w: AlertEmail must be a valid email address", ErrInvalidConfig)
	}

	return &Client{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// MustNewClient creates a client that panics on invalid config, for use
// during startup wiring.
func MustNewClient(cfg Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendAlert emails the given error record to the alert address. The body
// uses the record's sanitized fields only; cause chains and context values
// stay in the logs.
func (c *Client) SendAlert(ctx context.Context, rec *fault.Record) error {
	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:     c.config.SenderEmail,
		To:       c.config.AlertEmail,
		Subject:  fmt.Sprintf("[critical] %s/%s", rec.Category, rec.Code),
		Tag:      "critical-alert",
		HTMLBody: alertBody(rec),
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}

// AlertHook adapts the client to the recovery manager's alert callback.
// Send failures are logged and swallowed; alerting must never break the
// failing command's error path.
func (c *Client) AlertHook(logger *slog.Logger) recovery.AlertFunc {
	return func(ctx context.Context, rec *fault.Record) {
		if err := c.SendAlert(ctx, rec); err != nil {
			logger.ErrorContext(ctx, "failed to send critical alert",
				slog.String("error_id", rec.ID),
				slog.String("code", rec.Code),
				slog.String("error", err.Error()))
		}
	}
}

func alertBody(rec *fault.Record) string {
	return fmt.Sprintf(
		"<h2>Critical failure</h2>"+
			"<p><strong>Error ID:</strong> %s</p>"+
			"<p><strong>Category:</strong> %s</p>"+
			"<p><strong>Code:</strong> %s</p>"+
			"<p><strong>Message:</strong> %s</p>",
		html.EscapeString(rec.ID),
		html.EscapeString(string(rec.Category)),
		html.EscapeString(rec.Code),
		html.EscapeString(rec.Message),
	)
}

// isValidEmail checks if the provided string is a valid email address.
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
