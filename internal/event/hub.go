package event

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keyhold/internal/input/key"
)

// Hub is a synchronous KeySource and TickSource.
type Hub struct {
	mu     sync.Mutex
	subs   [topicCount][]*subscription
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// SubscribeKeyDown registers h for key-down events.
func (h *Hub) SubscribeKeyDown(fn KeyHandler, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return h.add(TopicKeyDown, fn, nil, opts)
}

// SubscribeKeyUp registers h for key-up events.
func (h *Hub) SubscribeKeyUp(fn KeyHandler, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return h.add(TopicKeyUp, fn, nil, opts)
}

// SubscribeTick registers h for ticks.
func (h *Hub) SubscribeTick(fn TickHandler, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return h.add(TopicTick, nil, fn, opts)
}

func (h *Hub) add(t Topic, onKey KeyHandler, onTick TickHandler, opts []SubscriptionOption) (Subscription, error) {
	var cfg SubscriptionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &subscription{
		id:     uuid.NewString(),
		topic:  t,
		config: cfg,
		onKey:  onKey,
		onTick: onTick,
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	h.subs[t] = append(h.subs[t], s)
	return s, nil
}

func (h *Hub) remove(s *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.subs[s.topic]
	for i, cur := range list {
		if cur == s {
			next := make([]*subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			h.subs[s.topic] = next
			return
		}
	}
}

// snapshot returns the current subscribers. Lists are never mutated in
// place, so the returned slice is stable while handlers run.
func (h *Hub) snapshot(t Topic) []*subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs[t]
}

// PublishKeyDown delivers ev to key-down subscribers.
func (h *Hub) PublishKeyDown(ev key.Event) error {
	return h.publishKey(TopicKeyDown, ev)
}

// PublishKeyUp delivers ev to key-up subscribers.
func (h *Hub) PublishKeyUp(ev key.Event) error {
	return h.publishKey(TopicKeyUp, ev)
}

func (h *Hub) publishKey(t Topic, ev key.Event) error {
	var errs []error
	for _, s := range h.snapshot(t) {
		if !s.IsActive() {
			continue
		}
		if err := s.onKey(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishTick delivers one tick to tick subscribers.
func (h *Hub) PublishTick() error {
	var errs []error
	for _, s := range h.snapshot(TopicTick) {
		if !s.IsActive() {
			continue
		}
		if err := s.onTick(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribers returns the number of active subscriptions on t.
func (h *Hub) Subscribers(t Topic) int {
	if t >= topicCount {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[t])
}

// Subscriptions returns the active subscriptions on t in order.
func (h *Hub) Subscriptions(t Topic) []Subscription {
	if t >= topicCount {
		return nil
	}
	list := h.snapshot(t)
	out := make([]Subscription, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

// Close cancels every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*subscription
	for t := range h.subs {
		all = append(all, h.subs[t]...)
		h.subs[t] = nil
	}
	h.mu.Unlock()

	for _, s := range all {
		s.cancelled.Store(true)
	}
}
