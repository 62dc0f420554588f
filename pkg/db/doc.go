// Package db opens the PostgreSQL pool that backs the River job queue.
//
//	var cfg db.Config
//	if err := env.Parse(&cfg); err != nil {
//	    return err
//	}
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	rt.OnShutdown(db.Shutdown(pool))
//	checks.Readiness("postgres", db.Healthcheck(pool))
//
// Connect retries with linear backoff so that a worker started alongside
// its database survives the database's startup. River's own tables are
// applied by job.Migrate.
package db
