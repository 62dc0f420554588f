package job

import "errors"

// Job errors.
var (
	// ErrUnknownTask is returned when attempting to execute a task
	// that has not been registered.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidPayload is returned when a task payload cannot be
	// unmarshaled into the expected type.
	ErrInvalidPayload = errors.New("job: invalid payload")

	// ErrAlreadyStarted is returned when attempting to start a manager
	// that is already running.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when attempting to stop a manager
	// that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when attempting to create a manager
	// or enqueuer without providing a database pool.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrMigrationFailed is returned when River's schema cannot be applied.
	ErrMigrationFailed = errors.New("job: migration failed")
)
