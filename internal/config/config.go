// Package config loads the courier worker configuration from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/courier/pkg/db"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer/resend"
	"github.com/dmitrymomot/courier/pkg/mailer/ses"
	"github.com/dmitrymomot/courier/pkg/redis"
)

// Providers.
const (
	ProviderResend = "resend"
	ProviderSES    = "ses"
	ProviderStdout = "stdout"
)

// Queue backends.
const (
	QueueRiver = "river"
	QueueRedis = "redis"
)

var (
	ErrParse           = errors.New("config: failed to parse environment")
	ErrUnknownProvider = errors.New("config: unknown mailer provider")
	ErrUnknownQueue    = errors.New("config: unknown queue backend")
	ErrMissingValue    = errors.New("config: missing required value")
)

// Config is the full worker configuration.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Provider string `env:"MAILER_PROVIDER" envDefault:"stdout"`
	Queue    string `env:"MAILER_QUEUE" envDefault:"river"`
	// Default-queue workers for River, BRPOP workers for Redis.
	Workers int `env:"MAILER_WORKERS" envDefault:"10"`
	// Redis list key of the deferred queue.
	RedisKey string `env:"MAILER_REDIS_KEY" envDefault:"courier:mailer"`
	// Cron expression re-queueing dead letters; empty disables it.
	RedriveSchedule string `env:"MAILER_REDRIVE_SCHEDULE"`

	Log    logger.Config
	Sentry logger.SentryConfig
	Resend resend.Config
	SES    ses.Config
	Redis  redis.Config
	DB     db.Config
}

// Load reads a .env file when one exists, then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Join(ErrParse, err)
	}
	return Parse(env.Options{})
}

// Parse parses the configuration with explicit env options and validates it.
func Parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the provider and queue selection along with the
// settings each of them requires.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderResend:
		if c.Resend.APIKey == "" {
			return fmt.Errorf("%w: RESEND_API_KEY", ErrMissingValue)
		}
	case ProviderSES, ProviderStdout:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}

	switch c.Queue {
	case QueueRiver:
		if c.DB.ConnectionString == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingValue)
		}
	case QueueRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("%w: REDIS_URL", ErrMissingValue)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQueue, c.Queue)
	}
	return nil
}
