package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrFunctionNotFound is returned when a reference names no global function.
	ErrFunctionNotFound = errors.New("lua function not found")

	// ErrUnsupportedScheme is returned for references with a scheme other than "lua".
	ErrUnsupportedScheme = errors.New("unsupported callback scheme")
)
