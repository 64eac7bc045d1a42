package keymap

import (
	"fmt"

	"github.com/dshills/keyhold/internal/input/key"
)

// Controller is the opaque host object passed to every callback.
// The dispatcher never inspects it.
type Controller = any

// Params is a resolved parameter mapping.
type Params map[string]any

// Params returns p itself, so static parameters satisfy ParamsProvider.
func (p Params) Params(Controller, key.Event) (Params, error) {
	return p, nil
}

// Result is what a callback action asks the dispatcher to do next.
type Result uint8

const (
	// Continue keeps the key held; the action runs again next tick.
	Continue Result = iota

	// Cancel stops per-tick invocation until the key is released.
	Cancel
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("Result(%d)", r)
	}
}

// Validator decides whether a press is accepted.
type Validator interface {
	Validate(ctrl Controller, params Params, ev key.Event) (bool, error)
}

// ActionHandler is a user-supplied action run once per tick while held.
type ActionHandler interface {
	Act(ctrl Controller, params Params, ev key.Event) (Result, error)
}

// ParamsProvider produces the parameters for a validation or action call.
type ParamsProvider interface {
	Params(ctrl Controller, ev key.Event) (Params, error)
}

// CompletionHandler is notified when an accepted press is released.
type CompletionHandler interface {
	Done(ctrl Controller, ev key.Event) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctrl Controller, params Params, ev key.Event) (bool, error)

// Validate calls f.
func (f ValidatorFunc) Validate(ctrl Controller, params Params, ev key.Event) (bool, error) {
	return f(ctrl, params, ev)
}

// ActionFunc adapts a function to ActionHandler.
type ActionFunc func(ctrl Controller, params Params, ev key.Event) (Result, error)

// Act calls f.
func (f ActionFunc) Act(ctrl Controller, params Params, ev key.Event) (Result, error) {
	return f(ctrl, params, ev)
}

// ParamsFunc adapts a function to ParamsProvider.
type ParamsFunc func(ctrl Controller, ev key.Event) (Params, error)

// Params calls f.
func (f ParamsFunc) Params(ctrl Controller, ev key.Event) (Params, error) {
	return f(ctrl, ev)
}

// DoneFunc adapts a function to CompletionHandler.
type DoneFunc func(ctrl Controller, ev key.Event) error

// Done calls f.
func (f DoneFunc) Done(ctrl Controller, ev key.Event) error {
	return f(ctrl, ev)
}

// ActionKind tags the variant held by an Action.
type ActionKind uint8

const (
	// ActionNone is the zero Action; it is not valid in a Binding.
	ActionNone ActionKind = iota

	// ActionBuiltin refers to an entry in an external built-in table.
	ActionBuiltin

	// ActionCallback holds a user-supplied ActionHandler.
	ActionCallback
)

// Action is either a built-in id or a callback. The variant is fixed when
// the Action is constructed.
type Action struct {
	kind    ActionKind
	id      int
	handler ActionHandler
}

// Builtin returns an Action that dispatches to built-in id.
func Builtin(id int) Action {
	return Action{kind: ActionBuiltin, id: id}
}

// Callback returns an Action that invokes h. A nil h yields the zero Action.
func Callback(h ActionHandler) Action {
	if h == nil {
		return Action{}
	}
	return Action{kind: ActionCallback, handler: h}
}

// CallbackFunc is Callback(ActionFunc(f)).
func CallbackFunc(f func(ctrl Controller, params Params, ev key.Event) (Result, error)) Action {
	if f == nil {
		return Action{}
	}
	return Callback(ActionFunc(f))
}

// Kind returns the variant tag.
func (a Action) Kind() ActionKind {
	return a.kind
}

// IsZero reports whether a holds no action.
func (a Action) IsZero() bool {
	return a.kind == ActionNone
}

// BuiltinID returns the built-in id and true for built-in actions.
func (a Action) BuiltinID() (int, bool) {
	return a.id, a.kind == ActionBuiltin
}

// Handler returns the callback for callback actions, nil otherwise.
func (a Action) Handler() ActionHandler {
	return a.handler
}

// String describes the action for logs.
func (a Action) String() string {
	switch a.kind {
	case ActionBuiltin:
		return fmt.Sprintf("builtin(%d)", a.id)
	case ActionCallback:
		return "callback"
	default:
		return "none"
	}
}
