package dispatcher

import (
	"fmt"
	"runtime"

	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
	"github.com/dshills/keyhold/internal/logging"
)

// Executor runs the callbacks of a binding against one controller.
type Executor struct {
	builtins BuiltinTable
	ctrl     keymap.Controller
	recover  bool
	logger   *logging.Logger
}

// NewExecutor creates an executor. A nil table resolves no ids.
func NewExecutor(builtins BuiltinTable, ctrl keymap.Controller) *Executor {
	if builtins == nil {
		builtins = BuiltinMap(nil)
	}
	return &Executor{builtins: builtins, ctrl: ctrl}
}

// SetPanicRecovery controls whether callback panics become errors.
func (x *Executor) SetPanicRecovery(enabled bool) {
	x.recover = enabled
}

// SetLogger sets the logger used to report unknown built-in ids.
func (x *Executor) SetLogger(l *logging.Logger) {
	x.logger = l
}

// Controller returns the controller passed to every callback.
func (x *Executor) Controller() keymap.Controller {
	return x.ctrl
}

// Execute runs the binding's action once for a held key.
//
// Parameters are resolved on every call. An id missing from the built-in
// table does nothing. Built-ins always yield Continue; a callback action's
// Result is returned as is.
func (x *Executor) Execute(b keymap.Binding, k string, ev key.Event) (res keymap.Result, err error) {
	params, err := x.params(b, k, ev)
	if err != nil {
		return keymap.Continue, err
	}

	defer x.guard(k, PhaseAction, &err)

	switch b.Action.Kind() {
	case keymap.ActionBuiltin:
		id, _ := b.Action.BuiltinID()
		fn, ok := x.builtins.Lookup(id)
		if !ok {
			x.logger.Debug("no built-in action %d for key %q", id, k)
			return keymap.Continue, nil
		}
		fn(x.ctrl, params, ev)
		return keymap.Continue, nil
	case keymap.ActionCallback:
		r, cbErr := b.Action.Handler().Act(x.ctrl, params, ev)
		if cbErr != nil {
			return keymap.Continue, wrapCallback(k, PhaseAction, cbErr)
		}
		return r, nil
	default:
		return keymap.Continue, nil
	}
}

// Validate reports whether a press of k is accepted. A binding without a
// validator accepts every press.
func (x *Executor) Validate(b keymap.Binding, k string, ev key.Event) (ok bool, err error) {
	if b.Validate == nil {
		return true, nil
	}
	params, err := x.params(b, k, ev)
	if err != nil {
		return false, err
	}

	defer x.guard(k, PhaseValidate, &err)

	ok, err = b.Validate.Validate(x.ctrl, params, ev)
	if err != nil {
		return false, wrapCallback(k, PhaseValidate, err)
	}
	return ok, nil
}

// Done calls the binding's completion handler, if any.
func (x *Executor) Done(b keymap.Binding, k string, ev key.Event) (err error) {
	if b.Done == nil {
		return nil
	}

	defer x.guard(k, PhaseDone, &err)

	return wrapCallback(k, PhaseDone, b.Done.Done(x.ctrl, ev))
}

func (x *Executor) params(b keymap.Binding, k string, ev key.Event) (p keymap.Params, err error) {
	defer x.guard(k, PhaseParams, &err)

	p, err = ResolveParams(b.Params, x.ctrl, ev)
	if err != nil {
		return nil, wrapCallback(k, PhaseParams, err)
	}
	return p, nil
}

// guard converts a panic into a CallbackError when recovery is enabled.
func (x *Executor) guard(k string, phase Phase, err *error) {
	if !x.recover {
		return
	}
	if r := recover(); r != nil {
		stack := make([]byte, 4096)
		n := runtime.Stack(stack, false)
		*err = &CallbackError{
			Key:   k,
			Phase: phase,
			Err:   fmt.Errorf("%w: %v\n%s", ErrPanic, r, stack[:n]),
		}
	}
}
