package redis

import "time"

// Config holds Redis connection settings for env parsing with caarlos0/env.
type Config struct {
	URL           string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
}

// Options converts the config into Open options.
func (c Config) Options() []Option {
	return []Option{
		WithPoolSize(c.PoolSize),
		WithMinIdleConns(c.MinIdleConns),
		WithRetry(c.RetryAttempts, c.RetryInterval),
	}
}
