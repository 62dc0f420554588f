package ses

// Config holds AWS SES v2 provider configuration.
// Static keys are optional; without them the default AWS credential chain is used.
type Config struct {
	Region          string `env:"SES_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"SES_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SES_SECRET_ACCESS_KEY"`
	SenderEmail     string `env:"SES_FROM_EMAIL"`
	SenderName      string `env:"SES_FROM_NAME"`
}
