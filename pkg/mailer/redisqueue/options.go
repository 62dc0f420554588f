package redisqueue

import (
	"log/slog"
	"time"
)

type config struct {
	logger          *slog.Logger
	key             string
	redriveSchedule string
	workers         int
	blockTimeout    time.Duration
}

// Option configures the Queue.
type Option func(*config)

// WithKey sets the list key. Defaults to "courier:mailer".
func WithKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.key = key
		}
	}
}

// WithWorkers sets the number of concurrent workers. Defaults to 4.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithBlockTimeout sets how long one BRPOP waits for a message.
// Stop takes about this long to interrupt an idle worker. Redis counts the
// timeout in whole seconds, so values below one second are ignored.
// Defaults to 1s.
func WithBlockTimeout(d time.Duration) Option {
	return func(c *config) {
		if d >= time.Second {
			c.blockTimeout = d
		}
	}
}

// WithRedriveSchedule moves all dead letters back onto the main list on a
// standard five-field cron schedule, e.g. "*/15 * * * *".
func WithRedriveSchedule(expr string) Option {
	return func(c *config) {
		c.redriveSchedule = expr
	}
}

// WithLogger sets the logger. If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
