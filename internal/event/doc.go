// Package event delivers key and tick signals to subscribers.
//
// A Hub is the in-process implementation of the three sources a dispatcher
// attaches to:
//
//	TopicKeyDown - a key went down (or was synthesized as down)
//	TopicKeyUp   - a key was released
//	TopicTick    - one rendered frame elapsed
//
// Delivery is synchronous: Publish* runs every active handler in
// subscription order on the caller's goroutine and returns the joined
// handler errors. Subscribing and cancelling are safe from any goroutine.
//
// # Usage
//
//	hub := event.NewHub()
//	sub, err := hub.SubscribeTick(func() error {
//	    return nil
//	}, event.WithOutsideMainContext(true))
//	...
//	_ = hub.PublishTick()
//	sub.Cancel()
package event
