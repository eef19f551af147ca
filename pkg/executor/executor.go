package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// stderrTail bounds how much of a failed command's stderr is kept. ffmpeg
// prints a long banner before the line that matters.
const stderrTail = 2048

// ExitError describes a command that ran and failed.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command %q exited %d: %v", e.Name, e.Code, e.Err)
	}
	return fmt.Sprintf("command %q exited %d: %v: %s", e.Name, e.Code, e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() error { return e.Err }

type implExecutor struct{}

// New creates an Executor backed by os/exec.
func New() Executor {
	return &implExecutor{}
}

func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return e.run(ctx, exec.CommandContext(ctx, name, args...), name)
}

// ExecuteInDir runs the command with dir as its working directory.
func (e *implExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return e.run(ctx, cmd, name)
}

func (e *implExecutor) run(ctx context.Context, cmd *exec.Cmd, name string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("command %q: %w", name, ctxErr)
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return "", &ExitError{Name: name, Code: code, Stderr: tail(stderr.String(), stderrTail), Err: err}
}

// tail keeps the last n bytes of s, starting at a line boundary when one
// is available.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	return s
}
