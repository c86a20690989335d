package svnlook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the child is
// killed or exits.
const waitDelay = 2 * time.Second

// Command is a fully assembled svnlook invocation.
type Command struct {
	Name       string
	Args       []string
	Dir        string
	MaxBuffer  int
	ShowWindow bool
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Executor runs a Command and returns its standard output.
type Executor interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecExecutor runs commands as child processes.
type ExecExecutor struct{}

// Run starts the command without a shell and buffers its output. It fails
// with ErrMaxBuffer once stdout or stderr grows past cmd.MaxBuffer, and with
// an *ExitError when the process cannot be started or exits non-zero.
func (ExecExecutor) Run(ctx context.Context, c Command) ([]byte, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	limit := c.MaxBuffer
	if limit <= 0 {
		limit = DefaultMaxBuffer
	}

	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	cmd.WaitDelay = waitDelay
	configureWindow(cmd, c.ShowWindow)

	stdout := &cappedBuffer{limit: limit, onOverflow: cancel}
	stderr := &cappedBuffer{limit: limit, onOverflow: cancel}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if stdout.overflowed || stderr.overflowed {
		return nil, fmt.Errorf("%w: %s (limit %d bytes)", ErrMaxBuffer, c, limit)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", c, ctxErr)
	}
	if err != nil {
		return nil, newExitError(c, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func newExitError(c Command, err error, stderr string) *ExitError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ExitError{
		Command:  c.Argv(),
		ExitCode: code,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}
}

var errOverflow = errors.New("buffer limit reached")

// cappedBuffer collects output up to limit bytes. The first write past the
// limit marks it overflowed, fires onOverflow and fails the copy. It does not
// embed bytes.Buffer so io.Copy cannot bypass Write through ReadFrom.
type cappedBuffer struct {
	buf        bytes.Buffer
	limit      int
	overflowed bool
	onOverflow func()
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.overflowed {
		return 0, errOverflow
	}
	if b.buf.Len()+len(p) > b.limit {
		b.overflowed = true
		if b.onOverflow != nil {
			b.onOverflow()
		}
		return 0, errOverflow
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) Bytes() []byte  { return b.buf.Bytes() }
func (b *cappedBuffer) String() string { return b.buf.String() }
