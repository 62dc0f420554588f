package mailer

import "errors"

var (
	// ErrUnknownAction is returned when a name that is not a registered
	// action is dispatched on a class.
	ErrUnknownAction = errors.New("mailer: unknown action")

	// ErrInvalidArguments indicates that the arguments passed to a typed
	// action do not match its declared argument type.
	ErrInvalidArguments = errors.New("mailer: invalid action arguments")

	// ErrSenderNotConfigured is returned by Deliver when a template id is set
	// but no Sender was bound to the parameters.
	ErrSenderNotConfigured = errors.New("mailer: sender not configured")

	// ErrEnqueuerNotConfigured is returned by DeliverLater when a template id
	// is set but no Enqueuer was bound to the parameters.
	ErrEnqueuerNotConfigured = errors.New("mailer: enqueuer not configured")

	// ErrInvalidDefaults indicates a defaults document that is not a mapping.
	ErrInvalidDefaults = errors.New("mailer: invalid defaults document")
)
