package broadcast

import (
	"sync"

	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/models"
)

// subscriberBuffer is the per-subscriber event backlog. A subscriber that
// falls further behind starts losing events; the channel is at-most-once.
const subscriberBuffer = 16

// Subscriber is one connected client's view of the broadcast channel.
type Subscriber struct {
	events chan models.Event
}

// Events returns the channel the hub delivers events on. It is closed
// when the subscriber is removed from the hub.
func (s *Subscriber) Events() <-chan models.Event {
	return s.events
}

// Hub fans events out to every currently connected subscriber. Publishing
// never blocks on a slow subscriber: events that do not fit the
// subscriber's buffer are dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber and returns it.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{events: make(chan models.Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	logger.Log.Infow("subscriber connected", "subscribers", n)
	return sub
}

// Unsubscribe removes a subscriber and closes its event channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.events)
	}
	n := len(h.subs)
	h.mu.Unlock()

	logger.Log.Infow("subscriber disconnected", "subscribers", n)
}

// Publish delivers the event to every subscriber that has buffer space.
func (h *Hub) Publish(ev models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub.events <- ev:
		default:
			logger.Log.Warnw("dropping event for slow subscriber", "event", ev.Event)
		}
	}
}

// Len returns the current subscriber count.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
