// Package mailjob connects mailer deferred delivery to the job package.
//
// [Enqueuer] implements mailer.Enqueuer by inserting a "mailer_deliver" job
// whose payload is the message snapshot. [Task] is the matching worker-side
// handler: it passes the decoded snapshot to a mailer.Sender unchanged.
//
//	// Dispatching process.
//	jobs, _ := job.NewEnqueuer(pool)
//	notifier := mailer.NewClass("notifier",
//	    mailer.WithEnqueuer(mailjob.NewEnqueuer(jobs, job.InQueue("mailers"))),
//	)
//
//	// Worker process.
//	manager, _ := job.NewManager(pool,
//	    job.WithTask(mailjob.NewTask(sender)),
//	    job.WithQueue("mailers", 10),
//	)
//
// The task has no retry policy of its own. A failing Send fails the job and
// River retries it with backoff until MaxAttempts.
//
// Template data crosses a JSON boundary: numbers arrive as float64 and
// custom types as their JSON shape.
package mailjob
