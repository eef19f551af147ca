// Package broadcast relays session events to the parties currently joined to
// a session channel. Delivery is best-effort and nothing is replayed.
package broadcast

import "github.com/nguyentantai21042004/scribe/internal/models"

// Subscriber receives events for the channels it joined.
type Subscriber interface {
	ID() string
	// Deliver queues the event without blocking and reports whether it was
	// accepted. A false return means the subscriber missed the event.
	Deliver(event models.Event) bool
}

// Broadcaster is a publish/subscribe registry keyed by session id.
type Broadcaster interface {
	// Subscribe adds sub to the session channel. Subscribing twice is a no-op.
	Subscribe(sessionID string, sub Subscriber)
	Unsubscribe(sessionID, subscriberID string)
	// Leave removes the subscriber from every channel it joined.
	Leave(subscriberID string)
	// Publish delivers event to the current subscribers of sessionID only.
	Publish(sessionID string, event models.Event)
	SubscriberCount(sessionID string) int
}
