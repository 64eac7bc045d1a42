package event

import "errors"

// Sentinel errors for the hub.
var (
	// ErrNilHandler is returned when a nil handler is subscribed.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHubClosed is returned when subscribing to a closed hub.
	ErrHubClosed = errors.New("event hub is closed")
)
