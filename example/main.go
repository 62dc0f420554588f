// Command example declares a notifier mailer and delivers its welcome
// email twice: synchronously and through the in-process queue. The stdout
// sender prints what a provider would have received.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"log/slog"
	"os"

	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/mailer/memqueue"
	"github.com/dmitrymomot/courier/pkg/mailer/stdout"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type User struct {
	FirstName string
	Email     string
	Locale    string
}

func main() {
	ctx := context.Background()
	log := logger.New(logger.Config{Level: "debug", Format: "text"}, mailer.DeliveryIDExtractor)

	defaults, err := mailer.LoadDefaults(bytes.NewReader(defaultsYAML))
	if err != nil {
		log.Error("failed to load mailer defaults", slog.Any("error", err))
		os.Exit(1)
	}

	sender := stdout.New(log)
	queue := memqueue.New(sender, memqueue.WithWorkers(2), memqueue.WithLogger(log))

	notifier := mailer.NewClass("notifier",
		mailer.WithDefaults(defaults),
		mailer.WithSender(sender),
		mailer.WithEnqueuer(queue),
		mailer.WithLogger(log),
	)

	welcome := mailer.Register(notifier, "welcome", func(m *mailer.Mailer, u User) error {
		m.Assign("name", u.FirstName)
		m.Mail(mailer.Fields{
			mailer.EmailID:          "tem_welcome",
			mailer.RecipientAddress: u.Email,
			mailer.RecipientName:    u.FirstName,
			mailer.Locale:           u.Locale,
			mailer.Tags:             []string{"welcome"},
		})
		return nil
	})

	if err := queue.Start(ctx); err != nil {
		log.Error("failed to start queue", slog.Any("error", err))
		os.Exit(1)
	}

	dave := User{FirstName: "Dave", Email: "dave@example.com", Locale: "en-US"}
	if err := welcome.Deliver(ctx, dave); err != nil {
		log.Error("deliver failed", slog.Any("error", err))
	}
	if err := welcome.DeliverLater(ctx, dave); err != nil {
		log.Error("deliver later failed", slog.Any("error", err))
	}

	// Stop drains whatever is still buffered.
	if err := queue.Stop(ctx); err != nil {
		log.Error("failed to stop queue", slog.Any("error", err))
		os.Exit(1)
	}
}
