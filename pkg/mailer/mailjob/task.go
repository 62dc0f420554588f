package mailjob

import (
	"context"
	"io"
	"log/slog"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

// TaskName is the job name deferred deliveries are enqueued under.
const TaskName = "mailer_deliver"

// Task delivers enqueued message snapshots.
type Task struct {
	sender mailer.Sender
	logger *slog.Logger
}

// TaskOption configures the Task.
type TaskOption func(*Task)

// WithLogger sets the logger. If not set, a noop logger is used.
func WithLogger(l *slog.Logger) TaskOption {
	return func(t *Task) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTask creates the delivery task around sender.
func NewTask(sender mailer.Sender, opts ...TaskOption) *Task {
	t := &Task{
		sender: sender,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements the job task contract.
func (t *Task) Name() string { return TaskName }

// Handle sends msg. The delivery ID is put on the context for the sender's logs.
func (t *Task) Handle(ctx context.Context, msg mailer.Message) error {
	if t.sender == nil {
		return mailer.ErrSenderNotConfigured
	}
	if msg.ID != "" {
		ctx = mailer.WithDeliveryID(ctx, msg.ID)
	}

	if err := t.sender.Send(ctx, &msg); err != nil {
		t.logger.WarnContext(ctx, "deferred delivery failed",
			slog.String("template_id", msg.TemplateID),
			slog.Any("error", err),
		)
		return err
	}

	t.logger.DebugContext(ctx, "deferred delivery sent",
		slog.String("template_id", msg.TemplateID),
	)
	return nil
}
