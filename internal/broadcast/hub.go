package broadcast

import (
	"context"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

func (h *implHub) Subscribe(sessionID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.channels[sessionID]
	if !ok {
		ch = &channel{subs: make(map[string]Subscriber)}
		h.channels[sessionID] = ch
	}

	ch.mu.Lock()
	_, exists := ch.subs[sub.ID()]
	ch.subs[sub.ID()] = sub
	ch.mu.Unlock()

	if exists {
		return
	}

	joined, ok := h.memberships[sub.ID()]
	if !ok {
		joined = make(map[string]struct{})
		h.memberships[sub.ID()] = joined
	}
	joined[sessionID] = struct{}{}
	h.metrics.AddSubscribers(1)

	h.logger.Debug(context.Background(), "Subscriber %s joined session %s", sub.ID(), sessionID)
}

func (h *implHub) Unsubscribe(sessionID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(sessionID, subscriberID)
}

func (h *implHub) Leave(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID := range h.memberships[subscriberID] {
		h.removeLocked(sessionID, subscriberID)
	}
}

// removeLocked drops one membership. Caller holds h.mu.
func (h *implHub) removeLocked(sessionID, subscriberID string) {
	ch, ok := h.channels[sessionID]
	if !ok {
		return
	}

	ch.mu.Lock()
	_, existed := ch.subs[subscriberID]
	delete(ch.subs, subscriberID)
	empty := len(ch.subs) == 0
	ch.mu.Unlock()

	if empty {
		delete(h.channels, sessionID)
	}
	if joined, ok := h.memberships[subscriberID]; ok {
		delete(joined, sessionID)
		if len(joined) == 0 {
			delete(h.memberships, subscriberID)
		}
	}
	if existed {
		h.metrics.AddSubscribers(-1)
		h.logger.Debug(context.Background(), "Subscriber %s left session %s", subscriberID, sessionID)
	}
}

func (h *implHub) Publish(sessionID string, event models.Event) {
	h.mu.RLock()
	ch, ok := h.channels[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	for id, sub := range ch.subs {
		delivered := sub.Deliver(event)
		h.metrics.RecordDelivery(delivered)
		if !delivered {
			h.logger.Warn(context.Background(), "Dropped %s for subscriber %s on session %s", event.Name, id, sessionID)
		}
	}
}

func (h *implHub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	ch, ok := h.channels[sessionID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.subs)
}
