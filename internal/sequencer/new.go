package sequencer

import "sync"

type sessionCounter struct {
	mu     sync.Mutex
	seeded bool
	next   int

	// users counts callers holding or waiting for mu; guarded by
	// implSequencer.mu.
	users int
}

type implSequencer struct {
	seeder Seeder

	mu       sync.Mutex
	sessions map[string]*sessionCounter
}

// New creates a Sequencer. seeder may be nil, in which case every session
// starts at ordinal 0.
func New(seeder Seeder) Sequencer {
	return &implSequencer{
		seeder:   seeder,
		sessions: make(map[string]*sessionCounter),
	}
}
