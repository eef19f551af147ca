package watcher

import "context"

// Watcher ingests audio chunks dropped into a spool directory laid out as
// <spool>/<sessionId>/<name>.<ext>.
type Watcher interface {
	// Start processes files already in the spool, then watches for new ones
	// until ctx is done. It waits for in-flight chunks before returning.
	Start(ctx context.Context) error
	Stop() error
}
