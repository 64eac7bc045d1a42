package key

import (
	"fmt"
	"time"
	"unicode"
)

// Event is a raw key-down or key-up signal as delivered by an input source.
type Event struct {
	// Code is the numeric key code.
	Code int

	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the source observed the event.
	Timestamp time.Time
}

// NewRuneEvent creates an event for a character key. Letters share one
// code regardless of case.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Code:      RuneCode(r),
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates an event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{
		Code:      k.Code(),
		Key:       k,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// RuneCode returns the key code for a character.
func RuneCode(r rune) int {
	if r == ' ' {
		return KeySpace.Code()
	}
	return int(unicode.ToUpper(r))
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Code: %d, Key: %s, Rune: %q, Modifiers: %s}",
		e.Code, e.Key, e.Rune, e.Modifiers.String())
}
