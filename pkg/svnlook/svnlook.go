// Package svnlook runs the svnlook repository inspection tool and turns its
// output into Go values.
//
// Every operation builds an argument list from an operation descriptor and
// per-call Options, runs svnlook as a child process without a shell, and
// returns either the raw output or a parsed result. Nothing is shared between
// calls, so a Client may be used from many goroutines.
package svnlook

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultExecutable is the svnlook binary looked up on PATH.
const DefaultExecutable = "svnlook"

// Client runs svnlook operations. The zero value runs "svnlook" from PATH
// as a child process and logs nothing.
type Client struct {
	Executable string
	Executor   Executor
	Logger     *zap.Logger
}

// New returns a Client using the real executor and the given logger.
func New(logger *zap.Logger) *Client {
	return &Client{Executor: ExecExecutor{}, Logger: logger}
}

// Result is the outcome of a successful operation. Raw always holds the
// bytes svnlook wrote; Text holds them decoded unless Options.Raw was set.
// At most one of Info, Lock and Props is set, according to the operation's
// output shape.
type Result struct {
	Op    Operation
	Argv  []string
	Raw   []byte
	Text  string
	Info  *Info
	Lock  Lock
	Props map[string]any
}

func (c *Client) executable() string {
	if c.Executable != "" {
		return c.Executable
	}
	return DefaultExecutable
}

func (c *Client) executor() Executor {
	if c.Executor != nil {
		return c.Executor
	}
	return ExecExecutor{}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// Command assembles the invocation for an operation without running it.
func (c *Client) Command(d Descriptor, req Request) (Command, error) {
	args, err := BuildArgs(d, req)
	if err != nil {
		return Command{}, err
	}
	opts := req.Options.orDefault()
	return Command{
		Name:       c.executable(),
		Args:       args,
		Dir:        opts.Dir,
		MaxBuffer:  opts.maxBuffer(),
		ShowWindow: opts.ShowWindow,
	}, nil
}

// Exec runs any operation, addressed by canonical name or alias, and parses
// its output according to the operation's shape.
func (c *Client) Exec(ctx context.Context, op Operation, req Request) (*Result, error) {
	d, err := Lookup(string(op))
	if err != nil {
		return nil, err
	}
	cmd, err := c.Command(d, req)
	if err != nil {
		return nil, err
	}

	log := c.logger().With(zap.String("op", string(d.Op)), zap.String("repo", req.Repo))
	log.Debug("running svnlook", zap.Strings("argv", cmd.Argv()), zap.String("dir", cmd.Dir))

	out, err := c.executor().Run(ctx, cmd)
	if err != nil {
		log.Warn("svnlook failed", zap.Error(err))
		return nil, err
	}
	log.Debug("svnlook finished", zap.Int("bytes", len(out)))

	res := &Result{Op: d.Op, Argv: cmd.Argv(), Raw: out}
	if !req.Options.orDefault().Raw {
		res.Text = decode(out)
	}

	switch d.Shape {
	case ShapeInfo:
		info := ParseInfo(decode(out))
		res.Info = &info
	case ShapeLock:
		res.Lock = ParseLock(decode(out))
	case ShapeXML:
		props, err := ParseXML(out)
		if err != nil {
			log.Warn("unable to parse svnlook output", zap.Error(err))
			return nil, fmt.Errorf("%s: %w", d.Op, err)
		}
		res.Props = props
	}
	return res, nil
}

// decode turns output into text, replacing invalid UTF-8.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func (c *Client) text(ctx context.Context, op Operation, req Request) (string, error) {
	res, err := c.Exec(ctx, op, req)
	if err != nil {
		return "", err
	}
	if req.Options.orDefault().Raw {
		return string(res.Raw), nil
	}
	return res.Text, nil
}

// Author returns the author of a revision or transaction.
func (c *Client) Author(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpAuthor, Request{Repo: repo, Options: opts})
}

// Cat returns the contents of a file as text.
func (c *Client) Cat(ctx context.Context, repo, target string, opts *Options) (string, error) {
	return c.text(ctx, OpCat, Request{Repo: repo, Target: target, Options: opts})
}

// CatBytes returns the contents of a file exactly as stored, for content
// that may not be text.
func (c *Client) CatBytes(ctx context.Context, repo, target string, opts *Options) ([]byte, error) {
	raw := *opts.orDefault()
	raw.Raw = true
	res, err := c.Exec(ctx, OpCat, Request{Repo: repo, Target: target, Options: &raw})
	if err != nil {
		return nil, err
	}
	return res.Raw, nil
}

// Changed lists the paths changed in a revision or transaction.
func (c *Client) Changed(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpChanged, Request{Repo: repo, Options: opts})
}

// Date returns the datestamp of a revision or transaction.
func (c *Client) Date(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpDate, Request{Repo: repo, Options: opts})
}

// Diff returns GNU-style differences of changed files and properties.
func (c *Client) Diff(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpDiff, Request{Repo: repo, Options: opts})
}

// DirsChanged lists directories that changed themselves or whose files changed.
func (c *Client) DirsChanged(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpDirsChanged, Request{Repo: repo, Options: opts})
}

// FileSize returns the size in bytes of a versioned file.
func (c *Client) FileSize(ctx context.Context, repo, target string, opts *Options) (string, error) {
	return c.text(ctx, OpFileSize, Request{Repo: repo, Target: target, Options: opts})
}

// History returns the history of a path.
func (c *Client) History(ctx context.Context, repo, target string, opts *Options) (string, error) {
	return c.text(ctx, OpHistory, Request{Repo: repo, Target: target, Options: opts})
}

// Info returns the author, date, log message size and log message.
func (c *Client) Info(ctx context.Context, repo string, opts *Options) (*Info, error) {
	res, err := c.Exec(ctx, OpInfo, Request{Repo: repo, Options: opts})
	if err != nil {
		return nil, err
	}
	return res.Info, nil
}

// Lock describes the lock on a path. The result is empty when the path is
// not locked.
func (c *Client) Lock(ctx context.Context, repo, target string, opts *Options) (Lock, error) {
	res, err := c.Exec(ctx, OpLock, Request{Repo: repo, Target: target, Options: opts})
	if err != nil {
		return nil, err
	}
	return res.Lock, nil
}

// Log returns the log message.
func (c *Client) Log(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpLog, Request{Repo: repo, Options: opts})
}

// PropGet returns the value of a property on a path.
func (c *Client) PropGet(ctx context.Context, repo, propName, target string, opts *Options) (string, error) {
	return c.text(ctx, OpPropGet, Request{Repo: repo, Target: target, Property: propName, Options: opts})
}

// PropList lists the properties of a path as a tree parsed from svnlook's
// XML output. See Properties for a flat view.
func (c *Client) PropList(ctx context.Context, repo, target string, opts *Options) (map[string]any, error) {
	res, err := c.Exec(ctx, OpPropList, Request{Repo: repo, Target: target, Options: opts})
	if err != nil {
		return nil, err
	}
	return res.Props, nil
}

// Tree returns the tree starting at a path.
func (c *Client) Tree(ctx context.Context, repo, target string, opts *Options) (string, error) {
	return c.text(ctx, OpTree, Request{Repo: repo, Target: target, Options: opts})
}

// UUID returns the repository's UUID.
func (c *Client) UUID(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpUUID, Request{Repo: repo, Options: opts})
}

// Youngest returns the youngest revision number.
func (c *Client) Youngest(ctx context.Context, repo string, opts *Options) (string, error) {
	return c.text(ctx, OpYoungest, Request{Repo: repo, Options: opts})
}

// RepositoryUUID returns the repository's UUID as a uuid.UUID.
func (c *Client) RepositoryUUID(ctx context.Context, repo string, opts *Options) (uuid.UUID, error) {
	out, err := c.UUID(ctx, repo, opts)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(strings.TrimSpace(out))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: uuid %q: %w", ErrParse, strings.TrimSpace(out), err)
	}
	return id, nil
}

// YoungestRevision returns the youngest revision number.
func (c *Client) YoungestRevision(ctx context.Context, repo string, opts *Options) (int64, error) {
	out, err := c.Youngest(ctx, repo, opts)
	if err != nil {
		return 0, err
	}
	rev, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: youngest revision %q: %w", ErrParse, strings.TrimSpace(out), err)
	}
	return rev, nil
}
