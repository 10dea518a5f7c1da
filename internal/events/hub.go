package events

import (
	"context"
	"sync"

	"github.com/oggyb/muzz-match/internal/logger"
)

// subscriberBuffer is how many undelivered events a subscriber may lag behind.
const subscriberBuffer = 16

type subscriber chan MatchEvent

// Hub is an in-process bus with per-user subscriber lists. It backs the
// WatchMatches stream.
type Hub struct {
	mu    sync.RWMutex
	users map[uint64]map[subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{users: make(map[uint64]map[subscriber]struct{})}
}

// Subscribe registers a listener for userID. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(userID uint64) (<-chan MatchEvent, func()) {
	ch := make(subscriber, subscriberBuffer)

	h.mu.Lock()
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[subscriber]struct{})
	}
	h.users[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.unsubscribe(userID, ch) })
	}
}

func (h *Hub) unsubscribe(userID uint64, ch subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.users[userID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; ok {
		delete(subs, ch)
		close(ch)
	}
	if len(subs) == 0 {
		delete(h.users, userID)
	}
}

// Publish hands the event to every subscriber of both participants. A full
// subscriber is skipped rather than blocking the caller.
func (h *Hub) Publish(_ context.Context, ev MatchEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range ev.Recipients() {
		for ch := range h.users[userID] {
			select {
			case ch <- ev:
			default:
				logger.Warn("match event dropped for slow subscriber", "user_id", userID, "event_id", ev.ID)
			}
		}
	}
	return nil
}

func (h *Hub) Transport() string { return "hub" }

// SubscriberCount returns the number of live listeners for userID.
func (h *Hub) SubscriberCount(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
