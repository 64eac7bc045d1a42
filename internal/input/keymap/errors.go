package keymap

import (
	"errors"
	"fmt"
)

// Sentinel errors for binding declarations.
var (
	// ErrNoAction is returned when a binding has no action.
	ErrNoAction = errors.New("binding has no action")

	// ErrEmptyKey is returned when a binding is declared for an empty key.
	ErrEmptyKey = errors.New("binding key is empty")

	// ErrDuplicateKey is returned when a declaration file binds a key twice.
	ErrDuplicateKey = errors.New("key bound more than once")

	// ErrInvalidField is returned when a declared field has the wrong type.
	ErrInvalidField = errors.New("invalid binding field")

	// ErrNoResolver is returned when a declaration references a callback
	// but no CallbackResolver was supplied.
	ErrNoResolver = errors.New("callback reference without resolver")

	// ErrUnknownFormat is returned for binding files with an unknown extension.
	ErrUnknownFormat = errors.New("unknown binding file format")
)

// LoadError describes a problem with one declared binding.
type LoadError struct {
	// Source is the file or reader the declaration came from.
	Source string

	// Index is the position of the binding in declaration order, or -1.
	Index int

	// Key is the declared key, if known.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	case e.Key != "":
		return fmt.Sprintf("%s: binding %d (%s): %v", e.Source, e.Index, e.Key, e.Err)
	default:
		return fmt.Sprintf("%s: binding %d: %v", e.Source, e.Index, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}
