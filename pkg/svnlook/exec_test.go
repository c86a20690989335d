package svnlook

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func shell(script string) Command {
	return Command{Name: "sh", Args: []string{"-c", script}}
}

func TestExecExecutorStdout(t *testing.T) {
	skipWithoutShell(t)

	out, err := ExecExecutor{}.Run(context.Background(), shell(`printf '42\n'`))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "42\n" {
		t.Fatalf("expected %q, got %q", "42\n", out)
	}
}

func TestExecExecutorNonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	out, err := ExecExecutor{}.Run(context.Background(), shell(`echo partial; echo "svnlook: E160013: no such path" >&2; exit 3`))
	if err == nil {
		t.Fatal("expected error")
	}
	if out != nil {
		t.Fatalf("expected nil output, got %q", out)
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", exitErr.ExitCode)
	}
	if exitErr.Stderr != "svnlook: E160013: no such path" {
		t.Fatalf("expected stderr to be captured, got %q", exitErr.Stderr)
	}
	if !strings.Contains(err.Error(), "no such path") {
		t.Fatalf("expected stderr in message, got %q", err.Error())
	}
}

func TestExecExecutorMissingExecutable(t *testing.T) {
	_, err := ExecExecutor{}.Run(context.Background(), Command{Name: "svnlook-not-installed-anywhere"})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode != -1 {
		t.Fatalf("expected exit code -1, got %d", exitErr.ExitCode)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected exec.ErrNotFound, got %v", err)
	}
}

func TestExecExecutorMaxBuffer(t *testing.T) {
	skipWithoutShell(t)

	cmd := shell(`i=0; while [ $i -lt 200 ]; do echo 0123456789; i=$((i+1)); done`)
	cmd.MaxBuffer = 1024

	out, err := ExecExecutor{}.Run(context.Background(), cmd)
	if !errors.Is(err, ErrMaxBuffer) {
		t.Fatalf("expected ErrMaxBuffer, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no truncated output, got %d bytes", len(out))
	}
}

func TestExecExecutorWithinMaxBuffer(t *testing.T) {
	skipWithoutShell(t)

	cmd := shell(`printf '0123456789'`)
	cmd.MaxBuffer = 10

	out, err := ExecExecutor{}.Run(context.Background(), cmd)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 10 {
		t.Fatalf("expected 10 bytes, got %d", len(out))
	}
}

func TestExecExecutorDir(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	cmd := shell(`pwd`)
	cmd.Dir = dir

	out, err := ExecExecutor{}.Run(context.Background(), cmd)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(string(out)))
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestExecExecutorCancelled(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExecExecutor{}.Run(ctx, shell(`sleep 5`))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "svnlook", Args: []string{"youngest", "/repo"}}
	if c.String() != "svnlook youngest /repo" {
		t.Fatalf("unexpected %q", c.String())
	}
}
