package event

import (
	"sync/atomic"

	"github.com/dshills/keyhold/internal/input/key"
)

// KeyHandler receives key-down or key-up events.
type KeyHandler func(ev key.Event) error

// TickHandler receives ticks.
type TickHandler func() error

// KeySource delivers key-down and key-up events.
type KeySource interface {
	SubscribeKeyDown(h KeyHandler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeKeyUp(h KeyHandler, opts ...SubscriptionOption) (Subscription, error)
}

// TickSource delivers per-frame ticks.
type TickSource interface {
	SubscribeTick(h TickHandler, opts ...SubscriptionOption) (Subscription, error)
}

// Subscription is a handle on one registered handler.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed stream.
	Topic() Topic

	// OutsideMainContext reports the execution-context flag requested at
	// subscription time. The hub records it; hosts with a distinguished
	// main context decide what it means.
	OutsideMainContext() bool

	// IsActive returns true until Cancel is called.
	IsActive() bool

	// Cancel stops delivery. It is idempotent.
	Cancel()
}

// SubscriptionConfig holds per-subscription options.
type SubscriptionConfig struct {
	OutsideMainContext bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithOutsideMainContext passes the execution-context flag through.
func WithOutsideMainContext(outside bool) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.OutsideMainContext = outside
	}
}

// subscription is the hub's Subscription.
type subscription struct {
	id        string
	topic     Topic
	config    SubscriptionConfig
	onKey     KeyHandler
	onTick    TickHandler
	cancelled atomic.Bool
	hub       *Hub
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Topic() Topic {
	return s.topic
}

func (s *subscription) OutsideMainContext() bool {
	return s.config.OutsideMainContext
}

func (s *subscription) IsActive() bool {
	return !s.cancelled.Load()
}

func (s *subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	s.hub.remove(s)
}
