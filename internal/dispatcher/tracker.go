package dispatcher

import (
	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
)

// Tracker holds one RunState per key of an installed binding set.
//
// The table is allocated once for a set and never grows: a key outside the
// set has no entry. Installing a different set means building a new Tracker.
type Tracker struct {
	slots []RunState
	index map[string]int
}

// NewTracker creates a tracker with every key Released, in the given order.
func NewTracker(keys []string) *Tracker {
	t := &Tracker{
		slots: make([]RunState, 0, len(keys)),
		index: make(map[string]int, len(keys)),
	}
	for _, k := range keys {
		if _, ok := t.index[k]; ok {
			continue
		}
		t.index[k] = len(t.slots)
		t.slots = append(t.slots, RunState{Key: k})
	}
	return t
}

// Len returns the number of tracked keys.
func (t *Tracker) Len() int {
	return len(t.slots)
}

// Get returns the run state for k.
func (t *Tracker) Get(k string) (RunState, bool) {
	i, ok := t.index[k]
	if !ok {
		return RunState{}, false
	}
	return t.slots[i], true
}

// State returns the state for k.
func (t *Tracker) State(k string) (State, bool) {
	rs, ok := t.Get(k)
	return rs.State, ok
}

// Press moves k from Released to Pressed and captures b and ev.
// It returns false if k is unknown or not Released.
func (t *Tracker) Press(k string, b keymap.Binding, ev key.Event) bool {
	rs := t.slot(k)
	if rs == nil || rs.State != Released {
		return false
	}
	rs.State = Pressed
	rs.Binding = b
	rs.Event = ev
	return true
}

// Cancel moves k from Pressed to Ignored. The captured binding and event
// are kept until release.
func (t *Tracker) Cancel(k string) bool {
	rs := t.slot(k)
	if rs == nil || rs.State != Pressed {
		return false
	}
	rs.State = Ignored
	return true
}

// Release moves k to Released and returns the state it left.
// It returns false if k is unknown or already Released.
func (t *Tracker) Release(k string) (RunState, bool) {
	rs := t.slot(k)
	if rs == nil || rs.State == Released {
		return RunState{}, false
	}
	prev := *rs
	*rs = RunState{Key: k}
	return prev, true
}

// Pressed returns the keys currently Pressed, in declaration order.
func (t *Tracker) Pressed() []string {
	var keys []string
	for _, rs := range t.slots {
		if rs.State == Pressed {
			keys = append(keys, rs.Key)
		}
	}
	return keys
}

// Snapshot returns a copy of every run state in declaration order.
func (t *Tracker) Snapshot() []RunState {
	out := make([]RunState, len(t.slots))
	copy(out, t.slots)
	return out
}

func (t *Tracker) slot(k string) *RunState {
	i, ok := t.index[k]
	if !ok {
		return nil
	}
	return &t.slots[i]
}
