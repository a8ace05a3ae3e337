package postmark

// Config holds Postmark credentials and addressing. Both tokens are required
// for runtime operation.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	AlertEmail           string `env:"ALERT_EMAIL,required"`
}
