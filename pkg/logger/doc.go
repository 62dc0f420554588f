// Package logger builds the structured slog logger used by the courier
// binaries.
//
// Context extractors add request-scoped attributes to every record logged
// with a context. The mailer package ships one for the delivery id so that
// every line written while a message is handed to a provider can be joined
// back to the enqueue that produced it:
//
//	log := logger.New(cfg.Log, mailer.DeliveryIDExtractor)
//	log.InfoContext(mailer.WithDeliveryID(ctx, id), "sent")
//	// {"level":"INFO","msg":"sent","delivery_id":"..."}
//
// When SENTRY_DSN is set, [NewWithSentry] also forwards warnings and errors
// to Sentry; errors become Sentry issues. Without a DSN it degrades to the
// plain stdout logger.
package logger
