package mailer

import "context"

// Sender is the synchronous delivery collaborator, usually a transactional
// email API client. Implementations must not modify msg.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Enqueuer submits a message for delivery by a background worker.
// The worker is expected to hand the same message to a Sender.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg *Message) error
}

// SenderFunc adapts an ordinary function to the Sender interface.
type SenderFunc func(ctx context.Context, msg *Message) error

// Send calls f(ctx, msg).
func (f SenderFunc) Send(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// EnqueuerFunc adapts an ordinary function to the Enqueuer interface.
type EnqueuerFunc func(ctx context.Context, msg *Message) error

// Enqueue calls f(ctx, msg).
func (f EnqueuerFunc) Enqueue(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}
