package service

import (
	"sync"
	"time"
)

const (
	EventReferralCredited = "referral_credited"
	EventCodeClaimed      = "code_claimed"
)

type Event struct {
	Type     string                 `json:"type"`
	UserID   int64                  `json:"user_id"`
	Data     map[string]interface{} `json:"data,omitempty"`
	EmitTime time.Time              `json:"emit_time"`
}

// Hub fans events out to dashboard subscribers. Publish never blocks the
// request path: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	if event.EmitTime.IsZero() {
		event.EmitTime = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
