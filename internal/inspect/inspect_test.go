package inspect

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/joelmoss/svnlook/internal/config"
	"github.com/joelmoss/svnlook/internal/errs"
	"github.com/joelmoss/svnlook/pkg/svnlook"
	"go.uber.org/zap/zaptest"
)

func init() {
	color.NoColor = true
}

// mockExecutor returns canned svnlook output for testing.
type mockExecutor struct {
	output string
	err    error
	calls  []svnlook.Command
}

func (m *mockExecutor) Run(_ context.Context, cmd svnlook.Command) ([]byte, error) {
	m.calls = append(m.calls, cmd)
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.output), nil
}

func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "repo")
	os.MkdirAll(dir, 0o755)
	os.WriteFile(filepath.Join(dir, "format"), []byte("5\n"), 0o644)
	return dir
}

func newTestService(t *testing.T, mock *mockExecutor) (*Service, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	svc := &Service{
		Client:     &svnlook.Client{Executor: mock, Logger: zaptest.NewLogger(t)},
		Config:     config.New(filepath.Join(t.TempDir(), "config.json")),
		Out:        &buf,
		ConfirmFn:  func(string) (bool, error) { return true, nil },
		SelectFn:   func(string, []string, []string) (string, error) { return "", nil },
		InputFn:    func(string) (string, error) { return "", nil },
		IsTerminal: func(io.Writer) bool { return false },
	}
	return svc, &buf
}

// --- ResolveRepo ---

func TestResolveRepoNotARepository(t *testing.T) {
	svc, _ := newTestService(t, &mockExecutor{})

	_, err := svc.ResolveRepo(t.TempDir())
	if !errors.Is(err, errs.ErrNotRepository) {
		t.Fatalf("expected ErrNotRepository, got %v", err)
	}
}

func TestResolveRepoNoneGiven(t *testing.T) {
	svc, _ := newTestService(t, &mockExecutor{})

	_, err := svc.ResolveRepo("")
	if !errors.Is(err, errs.ErrNoRepository) {
		t.Fatalf("expected ErrNoRepository, got %v", err)
	}
}

func TestResolveRepoByName(t *testing.T) {
	repo := newTestRepo(t)
	svc, _ := newTestService(t, &mockExecutor{})
	svc.Config.AddRepo("main", repo)

	got, err := svc.ResolveRepo("main")
	if err != nil {
		t.Fatal(err)
	}
	if got != repo {
		t.Fatalf("expected %s, got %s", repo, got)
	}
}

// --- Run ---

func TestRunRawOutput(t *testing.T) {
	repo := newTestRepo(t)
	mock := &mockExecutor{output: "A   trunk/a.txt\nU   trunk/b.txt\n"}
	svc, buf := newTestService(t, mock)

	err := svc.Run(context.Background(), svnlook.OpChanged, repo, svnlook.Request{Options: &svnlook.Options{Revision: "4"}})
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "A   trunk/a.txt\nU   trunk/b.txt\n" {
		t.Fatalf("expected output passed through, got %q", buf.String())
	}
	expected := []string{"svnlook", "changed", repo, "--revision", "4"}
	if strings.Join(mock.calls[0].Argv(), " ") != strings.Join(expected, " ") {
		t.Fatalf("expected %q, got %q", expected, mock.calls[0].Argv())
	}
}

func TestRunUsesConfiguredExecutableThroughClient(t *testing.T) {
	repo := newTestRepo(t)
	mock := &mockExecutor{output: "12\n"}
	svc, _ := newTestService(t, mock)
	svc.Client.Executable = "/opt/svn/bin/svnlook"

	if err := svc.Run(context.Background(), "youngest", repo, svnlook.Request{}); err != nil {
		t.Fatal(err)
	}
	if mock.calls[0].Name != "/opt/svn/bin/svnlook" {
		t.Fatalf("expected configured executable, got %s", mock.calls[0].Name)
	}
}

func TestRunInfo(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "alice\n2024-01-01\n42\nfix bug\n"})

	if err := svc.Run(context.Background(), svnlook.OpInfo, repo, svnlook.Request{}); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{"Author:   alice", "Date:     2024-01-01", "Size:     42", "Message:  fix bug"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got %q", want, output)
		}
	}
}

func TestRunInfoJSON(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "alice\n2024-01-01\n42\nfix bug\n"})
	svc.JSON = true

	if err := svc.Run(context.Background(), svnlook.OpInfo, repo, svnlook.Request{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"author": "alice"`) {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestRunLock(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "Owner: alice\nPath: /trunk/file\n"})

	if err := svc.Run(context.Background(), svnlook.OpLock, repo, svnlook.Request{Target: "/trunk/file"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Owner:  alice") {
		t.Fatalf("expected lock owner in output, got %q", buf.String())
	}
}

func TestRunLockNone(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: ""})

	if err := svc.Run(context.Background(), svnlook.OpLock, repo, svnlook.Request{Target: "trunk/a"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No lock on 'trunk/a'.") {
		t.Fatalf("expected no-lock message, got %q", buf.String())
	}
}

func TestRunPropList(t *testing.T) {
	repo := newTestRepo(t)
	mock := &mockExecutor{output: `<properties><target path="trunk/a.c"><property name="svn:eol-style">native</property><property name="svn:keywords">Id</property></target></properties>`}
	svc, buf := newTestService(t, mock)

	if err := svc.Run(context.Background(), "pl", repo, svnlook.Request{Target: "trunk/a.c"}); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if !strings.Contains(output, "trunk/a.c  svn:eol-style  native") {
		t.Fatalf("expected property row, got %q", output)
	}
	if !strings.Contains(output, "svn:keywords") {
		t.Fatalf("expected second property, got %q", output)
	}
	if mock.calls[0].Args[len(mock.calls[0].Args)-1] != "--xml" {
		t.Fatalf("expected --xml last, got %q", mock.calls[0].Args)
	}
}

func TestRunPropListMalformed(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "<properties>"})

	err := svc.Run(context.Background(), svnlook.OpPropList, repo, svnlook.Request{Target: "trunk"})
	if !errors.Is(err, svnlook.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRunFailure(t *testing.T) {
	repo := newTestRepo(t)
	failure := &svnlook.ExitError{Command: []string{"svnlook", "tree"}, ExitCode: 1, Stderr: "svnlook: E160013: File not found", Err: errors.New("exit status 1")}
	svc, buf := newTestService(t, &mockExecutor{err: failure})

	err := svc.Run(context.Background(), svnlook.OpTree, repo, svnlook.Request{Target: "nope"})
	var exitErr *svnlook.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRunVerbose(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "7\n"})
	svc.Verbose = true

	if err := svc.Run(context.Background(), svnlook.OpYoungest, repo, svnlook.Request{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "run  svnlook youngest "+repo) {
		t.Fatalf("expected verbose command line, got %q", buf.String())
	}
}

// --- cat ---

func TestCatText(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "hello\n"})
	svc.IsTerminal = func(io.Writer) bool { return true }
	svc.ConfirmFn = func(string) (bool, error) {
		t.Fatal("did not expect a prompt for text content")
		return false, nil
	}

	if err := svc.Run(context.Background(), svnlook.OpCat, repo, svnlook.Request{Target: "README"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Fatalf("expected file content, got %q", buf.String())
	}
}

func TestCatBinaryToTerminalDeclined(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "\x89PNG\r\n\x1a\n\x00\x00"})
	svc.IsTerminal = func(io.Writer) bool { return true }
	svc.ConfirmFn = func(string) (bool, error) { return false, nil }

	if err := svc.Run(context.Background(), svnlook.OpCat, repo, svnlook.Request{Target: "logo.png"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Aborting. 'logo.png' was not printed.") {
		t.Fatalf("expected abort message, got %q", buf.String())
	}
}

func TestCatBinaryToPipe(t *testing.T) {
	repo := newTestRepo(t)
	content := "\x89PNG\r\n\x1a\n\x00\x00"
	svc, buf := newTestService(t, &mockExecutor{output: content})

	if err := svc.Run(context.Background(), svnlook.OpCat, repo, svnlook.Request{Target: "logo.png"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != content {
		t.Fatalf("expected bytes untouched, got %q", buf.String())
	}
}

// --- Pick ---

func TestPickRunsSelectedOperation(t *testing.T) {
	repo := newTestRepo(t)
	mock := &mockExecutor{output: `<properties><target path="trunk/a.c"><property name="svn:eol-style">native</property></target></properties>`}
	svc, buf := newTestService(t, mock)

	var offered []string
	svc.SelectFn = func(_ string, _ []string, values []string) (string, error) {
		offered = values
		return "propget", nil
	}
	var asked []string
	svc.InputFn = func(msg string) (string, error) {
		asked = append(asked, msg)
		if strings.HasPrefix(msg, "Property") {
			return "svn:eol-style", nil
		}
		return "trunk/a.c", nil
	}

	if err := svc.Pick(context.Background(), repo, nil); err != nil {
		t.Fatal(err)
	}
	if len(offered) != len(svnlook.Descriptors()) {
		t.Fatalf("expected every operation to be offered, got %v", offered)
	}
	if len(asked) != 2 {
		t.Fatalf("expected property and path prompts, got %v", asked)
	}
	expected := "propget " + repo + " svn:eol-style trunk/a.c --xml"
	if strings.Join(mock.calls[0].Args, " ") != expected {
		t.Fatalf("expected %q, got %q", expected, mock.calls[0].Args)
	}
	if buf.String() != "trunk/a.c  svn:eol-style  native\n" {
		t.Fatalf("expected property value, got %q", buf.String())
	}
}

func TestPickNothingSelected(t *testing.T) {
	repo := newTestRepo(t)
	mock := &mockExecutor{}
	svc, buf := newTestService(t, mock)

	if err := svc.Pick(context.Background(), repo, nil); err != nil {
		t.Fatal(err)
	}
	if len(mock.calls) != 0 {
		t.Fatalf("expected nothing to run, got %d calls", len(mock.calls))
	}
	if !strings.Contains(buf.String(), "No operation was selected") {
		t.Fatalf("expected abort message, got %q", buf.String())
	}
}

// --- ListRepos ---

func TestListRepos(t *testing.T) {
	svc, buf := newTestService(t, &mockExecutor{})
	svc.Config.AddRepo("main", "/srv/svn/main")
	svc.Config.AddRepo("tools", "/srv/svn/tools")
	svc.Config.Set(config.KeyDefaultRepo, "main")

	if err := svc.ListRepos(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "main") || !strings.Contains(lines[0], "(default)") {
		t.Fatalf("expected main marked default, got %q", lines[0])
	}
	if strings.Contains(lines[1], "(default)") {
		t.Fatalf("expected tools not to be default, got %q", lines[1])
	}
}

func TestListReposEmpty(t *testing.T) {
	svc, buf := newTestService(t, &mockExecutor{})

	if err := svc.ListRepos(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No repositories configured.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}

func TestCatJSON(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "hello\n"})
	svc.JSON = true

	if err := svc.Run(context.Background(), svnlook.OpCat, repo, svnlook.Request{Target: "README"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"output": "hello\n"`) {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestCatJSONBinary(t *testing.T) {
	repo := newTestRepo(t)
	svc, buf := newTestService(t, &mockExecutor{output: "\x89PNG\r\n\x1a\n\x00\x00"})
	svc.JSON = true

	err := svc.Run(context.Background(), svnlook.OpCat, repo, svnlook.Request{Target: "logo.png"})
	if !errors.Is(err, errs.ErrBinaryJSON) {
		t.Fatalf("expected ErrBinaryJSON, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
