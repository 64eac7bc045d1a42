package dispatcher

import (
	"errors"
	"fmt"
)

// Dispatcher errors.
var (
	// ErrPanic indicates a callback panicked and panic recovery was enabled.
	ErrPanic = errors.New("dispatcher: callback panic")

	// ErrNoSources indicates the dispatcher was built without event sources.
	ErrNoSources = errors.New("dispatcher: missing event source")
)

// Phase names the callback that failed.
type Phase uint8

const (
	// PhaseParams is a params provider call.
	PhaseParams Phase = iota

	// PhaseValidate is a validator call.
	PhaseValidate

	// PhaseAction is an action call.
	PhaseAction

	// PhaseDone is a completion call.
	PhaseDone
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseParams:
		return "params"
	case PhaseValidate:
		return "validate"
	case PhaseAction:
		return "action"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// CallbackError wraps an error returned by a user callback.
type CallbackError struct {
	Key   string
	Phase Phase
	Err   error
}

// Error implements error.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("dispatcher: %s callback for key %q: %v", e.Phase, e.Key, e.Err)
}

// Unwrap returns the callback's error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}

func wrapCallback(k string, phase Phase, err error) error {
	if err == nil {
		return nil
	}
	return &CallbackError{Key: k, Phase: phase, Err: err}
}
