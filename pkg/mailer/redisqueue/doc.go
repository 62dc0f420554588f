// Package redisqueue is a mailer.Enqueuer backed by a Redis list.
//
// Enqueue pushes a JSON envelope with LPUSH; workers pop with BRPOP, so
// messages are delivered in FIFO order across any number of worker
// processes sharing the key. A failed send is not retried: the envelope,
// annotated with the error, is pushed to the "<key>:failed" dead-letter
// list. [Queue.Redrive] moves dead letters back onto the main list, either
// on demand or on a cron schedule set with [WithRedriveSchedule].
//
//	client, _ := redis.Open(ctx, "redis://localhost:6379/0")
//	q := redisqueue.New(client, sender,
//	    redisqueue.WithWorkers(8),
//	    redisqueue.WithRedriveSchedule("*/15 * * * *"),
//	)
//	if err := q.Start(ctx); err != nil {
//	    return err
//	}
//	defer q.Stop(context.Background())
//
//	notifier := mailer.NewClass("notifier", mailer.WithEnqueuer(q))
package redisqueue
