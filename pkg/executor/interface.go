package executor

import "context"

// Executor runs external binaries such as ffmpeg. A failed run returns an
// *ExitError unless the context ended first.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
}
