// Command courier-worker consumes deferred mailer deliveries and hands
// them to the configured email provider.
//
// MAILER_QUEUE selects where deliveries come from: "river" runs River
// workers on Postgres (the mailjob task), "redis" pops envelopes from a
// Redis list. MAILER_PROVIDER selects resend, ses or stdout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/courier/internal/config"
	"github.com/dmitrymomot/courier/internal/runtime"
	"github.com/dmitrymomot/courier/pkg/db"
	"github.com/dmitrymomot/courier/pkg/health"
	"github.com/dmitrymomot/courier/pkg/job"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/mailer/mailjob"
	"github.com/dmitrymomot/courier/pkg/mailer/redisqueue"
	"github.com/dmitrymomot/courier/pkg/mailer/resend"
	"github.com/dmitrymomot/courier/pkg/mailer/ses"
	"github.com/dmitrymomot/courier/pkg/mailer/stdout"
	"github.com/dmitrymomot/courier/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry, mailer.DeliveryIDExtractor)
	ctx := context.Background()

	sender, err := newSender(ctx, cfg, log)
	if err != nil {
		return err
	}

	opts := []runtime.Option{
		runtime.WithAddress(cfg.HTTPAddr),
		runtime.WithLogger(log),
		runtime.WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	checks := health.Checks{}

	switch cfg.Queue {
	case config.QueueRiver:
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		manager, err := job.NewManager(pool,
			job.WithTask(mailjob.NewTask(sender, mailjob.WithLogger(log))),
			job.WithMaxWorkers(cfg.Workers),
			job.WithLogger(log),
		)
		if err != nil {
			pool.Close()
			return err
		}

		checks["postgres"] = db.Healthcheck(pool)
		checks["jobs"] = job.Healthcheck(manager)
		opts = append(opts,
			runtime.WithStartupHook(func(ctx context.Context) error { return job.Migrate(ctx, pool, log) }),
			runtime.WithStartupHook(manager.StartFunc()),
			runtime.WithShutdownHook(manager.Shutdown()),
			runtime.WithShutdownHook(db.Shutdown(pool)),
		)

	case config.QueueRedis:
		client, err := redis.Open(ctx, cfg.Redis.URL, cfg.Redis.Options()...)
		if err != nil {
			return err
		}
		queue := redisqueue.New(client, sender,
			redisqueue.WithKey(cfg.RedisKey),
			redisqueue.WithWorkers(cfg.Workers),
			redisqueue.WithRedriveSchedule(cfg.RedriveSchedule),
			redisqueue.WithLogger(log),
		)

		checks["redis"] = redis.Healthcheck(client)
		opts = append(opts,
			runtime.WithStartupHook(queue.Start),
			runtime.WithShutdownHook(queue.Stop),
			runtime.WithShutdownHook(redis.Shutdown(client)),
		)
	}

	opts = append(opts, runtime.WithHandler(health.Router(checks, health.WithLogger(log))))

	log.Info("courier worker configured",
		slog.String("provider", cfg.Provider),
		slog.String("queue", cfg.Queue),
		slog.Int("workers", cfg.Workers),
	)
	return runtime.Run(opts...)
}

func newSender(ctx context.Context, cfg config.Config, log *slog.Logger) (mailer.Sender, error) {
	switch cfg.Provider {
	case config.ProviderResend:
		return resend.New(cfg.Resend, resend.WithLogger(log)), nil
	case config.ProviderSES:
		s, err := ses.New(ctx, cfg.SES, ses.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return stdout.New(log), nil
	}
}
