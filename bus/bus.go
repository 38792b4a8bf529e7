// ABOUTME: In-process publish/subscribe bus for sibling components
// ABOUTME: Fan-out with per-subscriber FIFO and publish-side suppression
package bus

import (
	"log"
	"sync"
)

const subscriberBuffer = 16

// Bus decouples components with no shared owner. Delivery is per-subscriber
// FIFO; there is no cross-subscriber ordering guarantee. Publish never
// blocks: a subscriber that falls more than subscriberBuffer events behind
// misses events, which is safe because consumers re-fetch state.
type Bus struct {
	mu         sync.Mutex
	subs       map[*Subscription]struct{}
	suppressor *Suppressor
	closed     bool
}

type Subscription struct {
	bus   *Bus
	kinds map[string]bool
	ch    chan Event
	once  sync.Once
}

func New() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// SetSuppressor installs publish-side suppression (see Suppressor). Safe to
// call once during wiring, before traffic.
func (b *Bus) SetSuppressor(s *Suppressor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suppressor = s
}

// Subscribe registers for the given kinds; no kinds means all events.
func (b *Bus) Subscribe(kinds ...string) *Subscription {
	sub := &Subscription{
		bus: b,
		ch:  make(chan Event, subscriberBuffer),
	}
	if len(kinds) > 0 {
		sub.kinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Events is the subscription's delivery channel. It closes when the
// subscription or the bus closes.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		if _, ok := s.bus.subs[s]; ok {
			delete(s.bus.subs, s)
			close(s.ch)
		}
	})
}

// Publish fans the event out to matching subscribers. Suppressed events are
// dropped before delivery so consumers never need their own dedup.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	if b.suppressor != nil && b.suppressor.Suppress(event) {
		return
	}

	for sub := range b.subs {
		if sub.kinds != nil && !sub.kinds[event.Kind()] {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Subscriber is behind; it will re-fetch on its next event
			log.Printf("bus: dropping %s event for slow subscriber", event.Kind())
		}
	}
}

// Close tears down the bus and all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
	}
	b.subs = make(map[*Subscription]struct{})
}
