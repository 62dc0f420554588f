package mailer

import (
	"io"
	"log/slog"
)

// options holds the collaborators shared by classes and standalone params.
type options struct {
	sender   Sender
	enqueuer Enqueuer
	logger   *slog.Logger
	defaults Fields
}

// Option configures a Class or a standalone Params.
type Option func(*options)

// WithSender binds the synchronous delivery collaborator.
func WithSender(s Sender) Option {
	return func(o *options) {
		if s != nil {
			o.sender = s
		}
	}
}

// WithEnqueuer binds the deferred delivery collaborator.
func WithEnqueuer(e Enqueuer) Option {
	return func(o *options) {
		if e != nil {
			o.enqueuer = e
		}
	}
}

// WithLogger sets the logger. If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaults merges f into the defaults. For a class this is equivalent
// to calling Default(f) right after creation; for standalone params the
// fields are merged immediately.
func WithDefaults(f Fields) Option {
	return func(o *options) {
		o.defaults = o.defaults.With(f)
	}
}

func applyOptions(base options, opts []Option) options {
	for _, opt := range opts {
		opt(&base)
	}
	if base.logger == nil {
		base.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return base
}
