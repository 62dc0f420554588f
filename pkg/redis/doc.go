// Package redis opens go-redis clients for the queue backend and exposes
// health and shutdown hooks for the worker process.
//
//	client, err := redis.Open(ctx, cfg.URL,
//	    redis.WithPoolSize(cfg.PoolSize),
//	    redis.WithRetry(cfg.RetryAttempts, cfg.RetryInterval),
//	)
//	if err != nil {
//	    return err
//	}
//	rt.OnShutdown(redis.Shutdown(client))
//	checks.Readiness("redis", redis.Healthcheck(client))
//
// Open pings the server and retries with linear backoff before giving up.
// Both redis:// and rediss:// (TLS) URLs are accepted.
package redis
