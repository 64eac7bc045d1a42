package dispatcher

import (
	"fmt"

	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
)

// State is the activation state of one bound key.
type State uint8

const (
	// Released is the initial state.
	Released State = iota

	// Pressed means the press was accepted and the action runs each tick.
	Pressed

	// Ignored means the action cancelled itself; it stays inert until key-up.
	Ignored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case Ignored:
		return "ignored"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// RunState is the run state of one key.
//
// Binding and Event are set only while State is Pressed or Ignored.
type RunState struct {
	Key     string
	State   State
	Binding keymap.Binding
	Event   key.Event
}

// Held reports whether the key is Pressed or Ignored.
func (r RunState) Held() bool {
	return r.State == Pressed || r.State == Ignored
}
