// Package stdout provides a mailer.Sender for local development that
// logs messages instead of delivering them.
package stdout

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

// Sender writes each message as one structured log record.
type Sender struct {
	logger *slog.Logger
}

// New creates a Sender logging to l. A nil logger writes text to stdout.
func New(l *slog.Logger) *Sender {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Sender{logger: l}
}

// Send implements mailer.Sender. It always succeeds.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	attrs := []slog.Attr{
		slog.String("template_id", msg.TemplateID),
		slog.String("to", msg.To.String()),
		slog.String("from", msg.From.String()),
		slog.Any("data", msg.Data),
	}
	// A context extractor already adds the id when it is on ctx.
	if _, ok := mailer.DeliveryID(ctx); !ok && msg.ID != "" {
		attrs = append(attrs, slog.String("delivery_id", msg.ID))
	}
	if msg.From.ReplyTo != "" {
		attrs = append(attrs, slog.String("reply_to", msg.From.ReplyTo))
	}
	if len(msg.CC) > 0 {
		attrs = append(attrs, slog.String("cc", strings.Join(msg.CC, ", ")))
	}
	if len(msg.BCC) > 0 {
		attrs = append(attrs, slog.String("bcc", strings.Join(msg.BCC, ", ")))
	}
	if len(msg.Tags) > 0 {
		attrs = append(attrs, slog.String("tags", strings.Join(msg.Tags, ",")))
	}
	if len(msg.Files) > 0 {
		names := make([]string, len(msg.Files))
		for i, f := range msg.Files {
			names[i] = f.Filename
		}
		attrs = append(attrs, slog.String("files", strings.Join(names, ", ")))
	}
	for _, a := range []slog.Attr{
		slog.String("version_name", msg.VersionName),
		slog.String("locale", msg.Locale),
		slog.String("esp_account", msg.ESPAccount),
	} {
		if a.Value.String() != "" {
			attrs = append(attrs, a)
		}
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "email", attrs...)
	return nil
}
