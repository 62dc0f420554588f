package mailer

import (
	"context"
	"log/slog"
)

type deliveryIDKey struct{}

// WithDeliveryID returns a copy of ctx carrying a message's delivery ID.
// Background workers set it before calling a Sender.
func WithDeliveryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deliveryIDKey{}, id)
}

// DeliveryID returns the delivery ID stored in ctx, if any.
func DeliveryID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deliveryIDKey{}).(string)
	return id, ok && id != ""
}

// DeliveryIDExtractor is a logger context extractor adding "delivery_id".
func DeliveryIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := DeliveryID(ctx); ok {
		return slog.String("delivery_id", id), true
	}
	return slog.Attr{}, false
}
