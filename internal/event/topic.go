package event

import "fmt"

// Topic identifies one of the hub's signal streams.
type Topic uint8

const (
	// TopicKeyDown carries key-down events.
	TopicKeyDown Topic = iota

	// TopicKeyUp carries key-up events.
	TopicKeyUp

	// TopicTick carries per-frame ticks.
	TopicTick

	topicCount
)

// String returns the topic name.
func (t Topic) String() string {
	switch t {
	case TopicKeyDown:
		return "keydown"
	case TopicKeyUp:
		return "keyup"
	case TopicTick:
		return "tick"
	default:
		return fmt.Sprintf("Topic(%d)", t)
	}
}
