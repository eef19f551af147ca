package sequencer

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

func (s *implSequencer) NextOrdinal(ctx context.Context, sessionID string) (int, error) {
	return s.Append(ctx, sessionID, nil)
}

func (s *implSequencer) Append(ctx context.Context, sessionID string, write func(ordinal int) error) (int, error) {
	c := s.acquire(sessionID)
	defer s.release(c)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seeded {
		if err := s.seed(ctx, sessionID, c); err != nil {
			return 0, models.NewError(models.KindSequencer, sessionID, err)
		}
	}

	ordinal := c.next
	if write != nil {
		if err := write(ordinal); err != nil {
			return ordinal, err
		}
	}
	c.next++

	return ordinal, nil
}

// acquire returns the session's counter, creating it on first use, and
// registers the caller as a user. The registry lock is held only for the
// lookup so sessions never block each other.
func (s *implSequencer) acquire(sessionID string) *sessionCounter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[sessionID]
	if !ok {
		c = &sessionCounter{}
		s.sessions[sessionID] = c
	}
	c.users++
	return c
}

func (s *implSequencer) release(c *sessionCounter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.users--
}

func (s *implSequencer) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.sessions[sessionID]; ok && c.users == 0 {
		delete(s.sessions, sessionID)
	}
}

// tracked reports how many sessions hold a counter.
func (s *implSequencer) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// seed continues from the persisted history after a restart. Caller holds c.mu.
func (s *implSequencer) seed(ctx context.Context, sessionID string, c *sessionCounter) error {
	if s.seeder == nil {
		c.seeded = true
		return nil
	}

	last, err := s.seeder.MaxOrdinal(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("seed ordinal for %s: %w", sessionID, err)
	}
	c.next = last + 1
	c.seeded = true
	return nil
}
