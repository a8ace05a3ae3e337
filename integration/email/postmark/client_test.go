package postmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdkit/integration/email/postmark"
)

func validConfig() postmark.Config {
	return postmark.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "alerts@example.com",
		AlertEmail:           "oncall@example.com",
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid config", func(t *testing.T) {
		t.Parallel()

		client, err := postmark.New(validConfig())
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("requires the server token", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.PostmarkServerToken = ""
		_, err := postmark.New(cfg)
		assert.ErrorIs(t, err, postmark.ErrInvalidConfig)
	})

	t.Run("requires the account token", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.PostmarkAccountToken = ""
		_, err := postmark.New(cfg)
		assert.ErrorIs(t, err, postmark.ErrInvalidConfig)
	})

	t.Run("rejects invalid addresses", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.SenderEmail = "not-an-email"
		_, err := postmark.New(cfg)
		assert.ErrorIs(t, err, postmark.ErrInvalidConfig)

		cfg = validConfig()
		cfg.AlertEmail = ""
		_, err = postmark.New(cfg)
		assert.ErrorIs(t, err, postmark.ErrInvalidConfig)
	})
}

func TestMustNewClient(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		postmark.MustNewClient(postmark.Config{})
	})
	assert.NotPanics(t, func() {
		postmark.MustNewClient(validConfig())
	})
}
