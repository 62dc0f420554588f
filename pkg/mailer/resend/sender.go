package resend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

// ErrMissingRecipient is returned when the message has no recipient address.
var ErrMissingRecipient = errors.New("resend: missing recipient address")

// Sender implements mailer.Sender using Resend's hosted templates.
type Sender struct {
	client *resend.Client
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

// WithClient replaces the API client, e.g. one pointed at a test server.
func WithClient(c *resend.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a new Resend sender.
func New(cfg Config, opts ...Option) *Sender {
	s := &Sender{
		client: resend.NewClient(cfg.APIKey),
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
	req, err := s.buildRequest(msg)
	if err != nil {
		return err
	}

	resp, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}

	s.logger.DebugContext(ctx, "email sent",
		slog.String("template_id", msg.TemplateID),
		slog.String("resend_id", resp.Id),
	)
	return nil
}

func (s *Sender) buildRequest(msg *mailer.Message) (*resend.SendEmailRequest, error) {
	if msg.To.Address == "" {
		return nil, ErrMissingRecipient
	}

	req := &resend.SendEmailRequest{
		From: s.from(msg.From),
		To:   []string{msg.To.String()},
		Cc:   msg.CC,
		Bcc:  msg.BCC,
		Template: &resend.EmailTemplate{
			Id:        msg.TemplateID,
			Variables: msg.Data,
		},
		ReplyTo: msg.From.ReplyTo,
		Headers: msg.Headers,
	}

	if len(msg.Files) > 0 {
		req.Attachments = convertAttachments(msg.Files)
	}
	if tags := convertTags(msg); len(tags) > 0 {
		req.Tags = tags
	}
	return req, nil
}

// from prefers the message sender and falls back to the configured one.
func (s *Sender) from(f mailer.From) string {
	if f.Address != "" {
		return f.String()
	}
	return mailer.From{Address: s.config.SenderEmail, Name: s.config.SenderName}.String()
}

func convertAttachments(files []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(files))
	for i, a := range files {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}

// convertTags turns labels into presence tags and adds the provider
// selectors that Resend has no dedicated field for.
func convertTags(msg *mailer.Message) []resend.Tag {
	result := make([]resend.Tag, 0, len(msg.Tags)+3)
	for _, label := range msg.Tags {
		result = append(result, resend.Tag{Name: label, Value: "true"})
	}
	for _, t := range []resend.Tag{
		{Name: "version_name", Value: msg.VersionName},
		{Name: "locale", Value: msg.Locale},
		{Name: "esp_account", Value: msg.ESPAccount},
	} {
		if t.Value != "" {
			result = append(result, t)
		}
	}
	return result
}
