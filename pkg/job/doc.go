// Package job runs background tasks on River, a Postgres-native queue.
//
// Every task shares one River job kind ("courier:task"). The job arguments
// carry the task name and a JSON payload, and a single worker dispatches
// them through a registry populated with [WithTask]. Tasks need no interface
// import; any type with Name() and Handle(ctx, P) methods qualifies:
//
//	type Deliver struct {
//	    sender mailer.Sender
//	}
//
//	func (t *Deliver) Name() string { return "mailer_deliver" }
//
//	func (t *Deliver) Handle(ctx context.Context, msg mailer.Message) error {
//	    return t.sender.Send(ctx, &msg)
//	}
//
// # Processes
//
// A worker process creates a [Manager], which can both enqueue and work jobs:
//
//	if err := job.Migrate(ctx, pool, logger); err != nil {
//	    return err
//	}
//	manager, err := job.NewManager(pool,
//	    job.WithTask(&Deliver{sender: sender}),
//	    job.WithQueue("mailers", 10),
//	    job.WithLogger(logger),
//	)
//	if err := manager.Start(ctx); err != nil {
//	    return err
//	}
//	defer manager.Stop(context.Background())
//
// Processes that only dispatch work use an [Enqueuer], a River client in
// insert-only mode:
//
//	enqueuer, err := job.NewEnqueuer(pool)
//	err = enqueuer.Enqueue(ctx, "mailer_deliver", msg,
//	    job.InQueue("mailers"),
//	    job.MaxAttempts(5),
//	)
//
// Retries, backoff and discarding after MaxAttempts are River's.
//
// # Health Checks
//
// [Healthcheck] reports whether the manager is running and its pool reachable.
// It is compatible with health.CheckFunc.
package job
