package app

import "errors"

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoTerminal indicates Run was called before SetTerminal.
	ErrNoTerminal = errors.New("no terminal")
)

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ReloadError reports a failed binding reload. The previous bindings stay
// installed.
type ReloadError struct {
	Path string
	Err  error
}

func (e *ReloadError) Error() string {
	if e.Path == "" {
		return "reload bindings: " + e.Err.Error()
	}
	return "reload bindings from " + e.Path + ": " + e.Err.Error()
}

func (e *ReloadError) Unwrap() error {
	return e.Err
}
