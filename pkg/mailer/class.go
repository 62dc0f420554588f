package mailer

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// ActionFunc builds one email. It runs against a fresh Mailer whose
// Params are returned to the caller of Class.Call.
type ActionFunc func(m *Mailer, args ...any) error

// Class is a mailer type: a named set of actions plus default header fields
// merged into every action's output by Mailer.Mail.
//
// Subclasses created with Extend start with a copy of the parent's defaults
// and inherit its actions. An action registered on a subclass under an
// inherited name overrides the parent's.
type Class struct {
	parent  *Class
	actions map[string]ActionFunc
	opts    options
	name    string
	mu      sync.RWMutex
}

// classType is used to answer RespondsTo for the class's own operations.
var classType = reflect.TypeOf((*Class)(nil))

// NewClass creates a root mailer class.
func NewClass(name string, opts ...Option) *Class {
	o := applyOptions(options{}, opts)
	return &Class{
		name:    name,
		actions: make(map[string]ActionFunc),
		opts:    o,
	}
}

// Extend creates a subclass. The subclass's defaults are a snapshot of c's
// defaults at this moment; later Default calls on c do not reach it.
// Collaborators are inherited unless overridden by opts.
func (c *Class) Extend(name string, opts ...Option) *Class {
	c.mu.RLock()
	base := c.opts
	base.defaults = c.opts.defaults.Clone()
	c.mu.RUnlock()

	return &Class{
		parent:  c,
		name:    name,
		actions: make(map[string]ActionFunc),
		opts:    applyOptions(base, opts),
	}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the class c was extended from, or nil for a root class.
func (c *Class) Parent() *Class { return c.parent }

// Default merges f into the class defaults. Repeated calls accumulate;
// later values win on the same key.
func (c *Class) Default(f Fields) *Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.defaults = c.opts.defaults.With(f)
	return c
}

// Defaults returns a copy of the class defaults.
func (c *Class) Defaults() Fields {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts.defaults.Clone()
}

// Action registers fn under name on this class.
// It panics if name is empty, fn is nil, name is already registered on
// this class, or name collides with a Class method.
func (c *Class) Action(name string, fn ActionFunc) *Class {
	if name == "" {
		panic("mailer: empty action name")
	}
	if fn == nil {
		panic("mailer: nil action " + name)
	}
	if _, ok := classType.MethodByName(name); ok {
		panic("mailer: action name " + name + " collides with a class method")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.actions[name]; exists {
		panic(fmt.Sprintf("mailer: action %s already registered on %s", name, c.name))
	}
	c.actions[name] = fn
	return c
}

// Actions returns the names of the actions declared on this class,
// excluding inherited ones, in sorted order.
func (c *Class) Actions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.actions))
	for name := range c.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RespondsTo reports whether name can be dispatched with Call, or is one
// of the class's own operations.
func (c *Class) RespondsTo(name string) bool {
	if _, ok := c.lookup(name); ok {
		return true
	}
	_, ok := classType.MethodByName(name)
	return ok
}

// Call runs the named action with args and returns the populated Params.
// The Params are bound to the class's sender and enqueuer.
// Unknown names yield ErrUnknownAction; action errors are returned as is.
func (c *Class) Call(name string, args ...any) (*Params, error) {
	fn, ok := c.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAction, c.name, name)
	}

	c.mu.RLock()
	o := c.opts
	c.mu.RUnlock()

	m := &Mailer{
		class:   c,
		action:  name,
		message: newParams(o),
	}

	o.logger.Debug("dispatching mailer action",
		slog.String("mailer", c.name),
		slog.String("action", name),
	)

	if err := fn(m, args...); err != nil {
		return nil, err
	}
	return m.message, nil
}

// lookup resolves name on c first, then on its ancestors.
func (c *Class) lookup(name string) (ActionFunc, bool) {
	for cls := c; cls != nil; cls = cls.parent {
		cls.mu.RLock()
		fn, ok := cls.actions[name]
		cls.mu.RUnlock()
		if ok {
			return fn, true
		}
	}
	return nil, false
}
