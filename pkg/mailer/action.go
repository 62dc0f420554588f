package mailer

import (
	"context"
	"fmt"
)

// Action is a typed handle to a registered action.
type Action[A any] struct {
	class *Class
	name  string
}

// Register registers a typed action on c and returns a handle to call it.
// The payload type A is what Build expects; Class.Call with a single
// argument of type A reaches the same function.
//
//	var Welcome = mailer.Register(Notifier, "welcome", func(m *mailer.Mailer, u User) error {
//	    m.Assign("name", u.Name)
//	    m.Mail(mailer.Fields{mailer.EmailID: "tpl1", mailer.RecipientAddress: u.Email})
//	    return nil
//	})
func Register[A any](c *Class, name string, fn func(m *Mailer, args A) error) Action[A] {
	if fn == nil {
		panic("mailer: nil action " + name)
	}
	c.Action(name, func(m *Mailer, args ...any) error {
		a, err := argument[A](args)
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidArguments, m.class.name, name, err)
		}
		return fn(m, a)
	})
	return Action[A]{class: c, name: name}
}

// Name returns the action name.
func (a Action[A]) Name() string { return a.name }

// On returns a handle dispatching the same name on c, typically a subclass,
// so that c's defaults and overrides apply.
func (a Action[A]) On(c *Class) Action[A] {
	return Action[A]{class: c, name: a.name}
}

// Build runs the action and returns the populated Params.
func (a Action[A]) Build(args A) (*Params, error) {
	return a.class.Call(a.name, args)
}

// Deliver builds the message and sends it synchronously.
func (a Action[A]) Deliver(ctx context.Context, args A) error {
	p, err := a.Build(args)
	if err != nil {
		return err
	}
	return p.Deliver(ctx)
}

// DeliverLater builds the message and hands it to the enqueuer.
func (a Action[A]) DeliverLater(ctx context.Context, args A) error {
	p, err := a.Build(args)
	if err != nil {
		return err
	}
	return p.DeliverLater(ctx)
}

func argument[A any](args []any) (A, error) {
	var zero A
	switch len(args) {
	case 0:
		return zero, nil
	case 1:
		if args[0] == nil {
			return zero, nil
		}
		a, ok := args[0].(A)
		if !ok {
			return zero, fmt.Errorf("got %T, want %T", args[0], zero)
		}
		return a, nil
	default:
		return zero, fmt.Errorf("got %d arguments, want 1", len(args))
	}
}
