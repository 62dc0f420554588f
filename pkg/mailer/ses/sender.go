package ses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

var (
	// ErrMissingRecipient is returned when the message has no recipient address.
	ErrMissingRecipient = errors.New("ses: missing recipient address")

	// ErrInvalidTemplateData indicates template data that cannot be encoded as JSON.
	ErrInvalidTemplateData = errors.New("ses: invalid template data")
)

// SendEmailAPI is the subset of the SES v2 client used by Sender.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender implements mailer.Sender using SES stored templates.
//
// The template id is the SES template name and the template data is sent
// as JSON. The ESP account selects the configuration set. Attachments and
// custom headers have no place in a templated SES send and are dropped.
type Sender struct {
	client SendEmailAPI
	logger *slog.Logger
	config Config
}

// Option configures the Sender.
type Option func(*Sender)

// WithLogger sets the logger. If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// New loads the AWS configuration and creates a Sender.
func New(ctx context.Context, cfg Config, opts ...Option) (*Sender, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("ses: failed to load AWS config: %w", err)
	}

	return NewWithClient(cfg, sesv2.NewFromConfig(awsCfg), opts...), nil
}

// NewWithClient creates a Sender around an existing client.
func NewWithClient(cfg Config, client SendEmailAPI, opts ...Option) *Sender {
	s := &Sender{
		client: client,
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	input, err := s.buildInput(msg)
	if err != nil {
		return err
	}

	if len(msg.Files) > 0 || len(msg.Headers) > 0 {
		s.logger.WarnContext(ctx, "ses templated send drops attachments and custom headers",
			slog.Int("files", len(msg.Files)),
			slog.Int("headers", len(msg.Headers)),
		)
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses: failed to send email: %w", err)
	}

	s.logger.DebugContext(ctx, "email sent",
		slog.String("template_id", msg.TemplateID),
		slog.String("ses_message_id", aws.ToString(out.MessageId)),
	)
	return nil
}

func (s *Sender) buildInput(msg *mailer.Message) (*sesv2.SendEmailInput, error) {
	if msg.To.Address == "" {
		return nil, ErrMissingRecipient
	}

	data := msg.Data
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Join(ErrInvalidTemplateData, err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from(msg.From)),
		Destination: &types.Destination{
			ToAddresses:  []string{msg.To.String()},
			CcAddresses:  msg.CC,
			BccAddresses: msg.BCC,
		},
		Content: &types.EmailContent{
			Template: &types.Template{
				TemplateName: aws.String(msg.TemplateID),
				TemplateData: aws.String(string(encoded)),
			},
		},
	}

	if msg.From.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.From.ReplyTo}
	}
	if msg.ESPAccount != "" {
		input.ConfigurationSetName = aws.String(msg.ESPAccount)
	}
	if tags := messageTags(msg); len(tags) > 0 {
		input.EmailTags = tags
	}
	return input, nil
}

// from prefers the message sender and falls back to the configured one.
func (s *Sender) from(f mailer.From) string {
	if f.Address != "" {
		return f.String()
	}
	return mailer.From{Address: s.config.SenderEmail, Name: s.config.SenderName}.String()
}

func messageTags(msg *mailer.Message) []types.MessageTag {
	tags := make([]types.MessageTag, 0, len(msg.Tags)+2)
	for _, label := range msg.Tags {
		tags = append(tags, types.MessageTag{Name: aws.String(label), Value: aws.String("true")})
	}
	if msg.VersionName != "" {
		tags = append(tags, types.MessageTag{Name: aws.String("version_name"), Value: aws.String(msg.VersionName)})
	}
	if msg.Locale != "" {
		tags = append(tags, types.MessageTag{Name: aws.String("locale"), Value: aws.String(msg.Locale)})
	}
	return tags
}
