package sequencer

import "context"

// Sequencer hands out gap-free ordinals per session.
type Sequencer interface {
	// NextOrdinal reserves and returns the next ordinal for the session.
	NextOrdinal(ctx context.Context, sessionID string) (int, error)
	// Append assigns the next ordinal and calls write with it while holding the
	// session's lock. The ordinal is consumed only if write succeeds, so a
	// failed write leaves no gap and writes land in ordinal order.
	Append(ctx context.Context, sessionID string, write func(ordinal int) error) (int, error)
	// Forget drops the session's in-memory counter. A later Append reseeds
	// from the store. A counter in use is kept.
	Forget(sessionID string)
}

// Seeder reports the highest ordinal already persisted for a session, or -1.
type Seeder interface {
	MaxOrdinal(ctx context.Context, sessionID string) (int, error)
}
