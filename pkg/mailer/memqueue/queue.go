// Package memqueue is an in-process mailer.Enqueuer backed by a buffered
// channel and a fixed pool of workers. Messages are lost on process exit;
// use it for development, tests and single-process deployments.
package memqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

var (
	// ErrQueueClosed is returned by Enqueue after Stop.
	ErrQueueClosed = errors.New("memqueue: queue closed")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("memqueue: already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("memqueue: not started")
)

const (
	defaultWorkers = 4
	defaultBuffer  = 100
)

// Queue delivers enqueued messages through a Sender on background workers.
// Failed sends are logged and dropped.
type Queue struct {
	sender  mailer.Sender
	logger  *slog.Logger
	ch      chan *mailer.Message
	done    chan struct{} // closed by Stop: Enqueue refuses
	drain   chan struct{} // closed once no Enqueue is mid-send: workers empty ch and exit
	group   *errgroup.Group
	workers int

	// Enqueue holds sendMu for reading while it sends; Stop takes it for
	// writing before releasing the workers into their final drain.
	sendMu sync.RWMutex

	mu      sync.Mutex
	started bool
	closed  bool
}

// Option configures the Queue.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	workers int
	buffer  int
}

// WithWorkers sets the number of concurrent senders. Defaults to 4.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithBuffer sets how many messages may wait for a worker. Defaults to 100.
func WithBuffer(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.buffer = n
		}
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

// New creates a Queue delivering through sender.
func New(sender mailer.Sender, opts ...Option) *Queue {
	cfg := &config{
		workers: defaultWorkers,
		buffer:  defaultBuffer,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Queue{
		sender:  sender,
		logger:  cfg.logger,
		workers: cfg.workers,
		ch:      make(chan *mailer.Message, cfg.buffer),
		done:    make(chan struct{}),
		drain:   make(chan struct{}),
	}
}

// Enqueue implements mailer.Enqueuer. It blocks while the buffer is full,
// until ctx is done or the queue is stopped.
func (q *Queue) Enqueue(ctx context.Context, msg *mailer.Message) error {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()

	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.ch <- msg:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the workers. Sends run on a context detached from ctx's
// cancellation so Stop can drain in-flight work.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if q.started {
		return ErrAlreadyStarted
	}

	sendCtx := context.WithoutCancel(ctx)
	q.group = &errgroup.Group{}
	for range q.workers {
		q.group.Go(func() error {
			q.work(sendCtx)
			return nil
		})
	}

	q.started = true
	q.logger.InfoContext(ctx, "memqueue started", slog.Int("workers", q.workers))
	return nil
}

// Stop refuses new messages, lets the workers drain the buffer and waits
// for them, or for ctx to be done.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return ErrNotStarted
	}
	first := !q.closed
	if first {
		q.closed = true
		close(q.done)
	}
	group := q.group
	q.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		if first {
			// Blocked Enqueue calls see done and return. Once the lock is
			// held every accepted message is in ch.
			q.sendMu.Lock()
			close(q.drain)
			q.sendMu.Unlock()
		}
		_ = group.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		q.logger.InfoContext(ctx, "memqueue stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of buffered messages.
func (q *Queue) Pending() int { return len(q.ch) }

func (q *Queue) work(ctx context.Context) {
	for {
		select {
		case msg := <-q.ch:
			q.deliver(ctx, msg)
		case <-q.drain:
			for {
				select {
				case msg := <-q.ch:
					q.deliver(ctx, msg)
				default:
					return
				}
			}
		}
	}
}

func (q *Queue) deliver(ctx context.Context, msg *mailer.Message) {
	ctx = mailer.WithDeliveryID(ctx, msg.ID)
	if err := q.sender.Send(ctx, msg); err != nil {
		q.logger.ErrorContext(ctx, "deferred delivery failed",
			slog.String("template_id", msg.TemplateID),
			slog.Any("error", err),
		)
		return
	}
	q.logger.DebugContext(ctx, "deferred delivery sent",
		slog.String("template_id", msg.TemplateID),
	)
}
