package mailjob

import (
	"context"

	"github.com/dmitrymomot/courier/pkg/job"
	"github.com/dmitrymomot/courier/pkg/mailer"
)

// JobEnqueuer is satisfied by *job.Enqueuer and *job.Manager.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
}

// Enqueuer implements mailer.Enqueuer on top of a job enqueuer.
type Enqueuer struct {
	jobs JobEnqueuer
	opts []job.EnqueueOption
}

// NewEnqueuer creates an Enqueuer. opts apply to every inserted job;
// without InQueue jobs go to River's default queue.
func NewEnqueuer(jobs JobEnqueuer, opts ...job.EnqueueOption) *Enqueuer {
	return &Enqueuer{jobs: jobs, opts: opts}
}

// Enqueue implements mailer.Enqueuer. Job errors are returned unchanged.
func (e *Enqueuer) Enqueue(ctx context.Context, msg *mailer.Message) error {
	return e.jobs.Enqueue(ctx, TaskName, msg, e.opts...)
}
