package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

var (
	// ErrQueueClosed is returned by Enqueue and Start after Stop.
	ErrQueueClosed = errors.New("redisqueue: queue closed")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("redisqueue: already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("redisqueue: not started")

	// ErrInvalidSchedule indicates a redrive schedule that is not a cron expression.
	ErrInvalidSchedule = errors.New("redisqueue: invalid redrive schedule")
)

const (
	defaultKey          = "courier:mailer"
	defaultWorkers      = 4
	defaultBlockTimeout = time.Second
	errorBackoff        = 500 * time.Millisecond
)

// envelope is the list element.
type envelope struct {
	EnqueuedAt time.Time       `json:"enqueued_at"`
	FailedAt   *time.Time      `json:"failed_at,omitempty"`
	Message    *mailer.Message `json:"message"`
	ID         string          `json:"id"`
	Error      string          `json:"error,omitempty"`
	Attempts   int             `json:"attempts,omitempty"`
}

// Queue is a Redis list backed mailer.Enqueuer with its own worker pool.
type Queue struct {
	client redis.UniversalClient
	sender mailer.Sender
	logger *slog.Logger
	cron   *cron.Cron
	cancel context.CancelFunc
	group  *errgroup.Group

	key             string
	failedKey       string
	redriveSchedule string
	workers         int
	blockTimeout    time.Duration

	mu      sync.Mutex
	started bool
	closed  bool
}

// New creates a Queue. sender may be nil in processes that only enqueue.
func New(client redis.UniversalClient, sender mailer.Sender, opts ...Option) *Queue {
	cfg := &config{
		key:          defaultKey,
		workers:      defaultWorkers,
		blockTimeout: defaultBlockTimeout,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Queue{
		client:          client,
		sender:          sender,
		logger:          cfg.logger,
		key:             cfg.key,
		failedKey:       cfg.key + ":failed",
		redriveSchedule: cfg.redriveSchedule,
		workers:         cfg.workers,
		blockTimeout:    cfg.blockTimeout,
	}
}

// Key returns the main list key.
func (q *Queue) Key() string { return q.key }

// FailedKey returns the dead-letter list key.
func (q *Queue) FailedKey() string { return q.failedKey }

// Enqueue implements mailer.Enqueuer.
func (q *Queue) Enqueue(ctx context.Context, msg *mailer.Message) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	raw, err := json.Marshal(envelope{
		ID:         id,
		Message:    msg,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("redisqueue: encode message: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("redisqueue: push: %w", err)
	}
	return nil
}

// Len returns the number of messages waiting on the main list.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// FailedLen returns the number of dead letters.
func (q *Queue) FailedLen(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.failedKey).Result()
}

// Redrive moves up to limit dead letters back onto the main list, oldest
// first. A limit of zero or less moves all of them.
func (q *Queue) Redrive(ctx context.Context, limit int) (int, error) {
	moved := 0
	for limit <= 0 || moved < limit {
		err := q.client.RPopLPush(ctx, q.failedKey, q.key).Err()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return moved, fmt.Errorf("redisqueue: redrive: %w", err)
		}
		moved++
	}
	if moved > 0 {
		q.logger.InfoContext(ctx, "dead letters redriven", slog.Int("count", moved))
	}
	return moved, nil
}

// Start launches the workers and, if configured, the redrive schedule.
// In-flight sends use a context detached from ctx's cancellation.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if q.started {
		return ErrAlreadyStarted
	}
	if q.sender == nil {
		return mailer.ErrSenderNotConfigured
	}

	base := context.WithoutCancel(ctx)
	if q.redriveSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(q.redriveSchedule, func() {
			if _, err := q.Redrive(base, 0); err != nil {
				q.logger.ErrorContext(base, "scheduled redrive failed", slog.Any("error", err))
			}
		}); err != nil {
			return errors.Join(ErrInvalidSchedule, err)
		}
		c.Start()
		q.cron = c
	}

	popCtx, cancel := context.WithCancel(base)
	q.cancel = cancel
	q.group = &errgroup.Group{}
	for range q.workers {
		q.group.Go(func() error {
			q.work(popCtx, base)
			return nil
		})
	}

	q.started = true
	q.logger.InfoContext(ctx, "redisqueue started",
		slog.String("key", q.key),
		slog.Int("workers", q.workers),
	)
	return nil
}

// Stop refuses new messages and waits for the workers to finish their
// current message, or for ctx to be done. Waiting messages stay in Redis.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return ErrNotStarted
	}
	q.closed = true
	q.cancel()
	group, c := q.group, q.cron
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		if c != nil {
			<-c.Stop().Done()
		}
		_ = group.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.logger.InfoContext(ctx, "redisqueue stopped", slog.String("key", q.key))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) work(popCtx, sendCtx context.Context) {
	for popCtx.Err() == nil {
		res, err := q.client.BRPop(popCtx, q.blockTimeout, q.key).Result()
		if err == nil {
			// The element is already off the list: it must be sent or
			// dead-lettered even when Stop raced the pop.
			// BRPOP replies with [key, value].
			q.process(sendCtx, res[1])
			continue
		}

		switch {
		case errors.Is(err, redis.Nil):
		case popCtx.Err() != nil:
			return
		default:
			q.logger.ErrorContext(popCtx, "redisqueue pop failed", slog.Any("error", err))
			select {
			case <-popCtx.Done():
				return
			case <-time.After(errorBackoff):
			}
		}
	}
}

func (q *Queue) process(ctx context.Context, raw string) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Message == nil {
		if err == nil {
			err = errors.New("envelope without message")
		}
		q.logger.ErrorContext(ctx, "redisqueue dropped undecodable envelope", slog.Any("error", err))
		q.pushFailedRaw(ctx, raw)
		return
	}

	ctx = mailer.WithDeliveryID(ctx, env.ID)
	if err := q.sender.Send(ctx, env.Message); err != nil {
		q.logger.ErrorContext(ctx, "deferred delivery failed",
			slog.String("template_id", env.Message.TemplateID),
			slog.Any("error", err),
		)
		q.deadLetter(ctx, env, err)
		return
	}

	q.logger.DebugContext(ctx, "deferred delivery sent",
		slog.String("template_id", env.Message.TemplateID),
	)
}

func (q *Queue) deadLetter(ctx context.Context, env envelope, cause error) {
	now := time.Now().UTC()
	env.FailedAt = &now
	env.Error = cause.Error()
	env.Attempts++

	raw, err := json.Marshal(env)
	if err != nil {
		q.logger.ErrorContext(ctx, "redisqueue dead letter encode failed", slog.Any("error", err))
		return
	}
	q.pushFailedRaw(ctx, string(raw))
}

func (q *Queue) pushFailedRaw(ctx context.Context, raw string) {
	if err := q.client.LPush(ctx, q.failedKey, raw).Err(); err != nil {
		q.logger.ErrorContext(ctx, "redisqueue dead letter push failed", slog.Any("error", err))
	}
}
