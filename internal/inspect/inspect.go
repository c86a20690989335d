package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/joelmoss/svnlook/internal/config"
	"github.com/joelmoss/svnlook/internal/errs"
	"github.com/joelmoss/svnlook/internal/ui"
	"github.com/joelmoss/svnlook/pkg/svnlook"
	"github.com/samber/lo"
)

// SelectFunc, ConfirmFunc and InputFunc abstract interactive prompts for testability.
type SelectFunc func(message string, labels, values []string) (string, error)
type ConfirmFunc func(message string) (bool, error)
type InputFunc func(message string) (string, error)

// Service runs svnlook operations for the CLI and renders their results.
type Service struct {
	Client    *svnlook.Client
	Config    *config.Config
	Out       io.Writer
	Verbose   bool
	JSON      bool
	SelectFn  SelectFunc
	ConfirmFn ConfirmFunc
	InputFn   InputFunc

	// IsTerminal reports whether Out is a terminal. Defaults to ui.IsTerminal.
	IsTerminal func(io.Writer) bool
}

func (s *Service) output() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return os.Stdout
}

func (s *Service) say(msg string) {
	fmt.Fprintln(s.output(), msg)
}

func (s *Service) sayColor(msg, colorName string) {
	w := s.output()
	switch colorName {
	case "green":
		fmt.Fprintln(w, ui.Green(msg))
	case "red":
		fmt.Fprintln(w, ui.Red(msg))
	case "yellow":
		fmt.Fprintln(w, ui.Yellow(msg))
	case "blue":
		fmt.Fprintln(w, ui.Blue(msg))
	default:
		fmt.Fprintln(w, msg)
	}
}

func (s *Service) sayStatus(status, msg string) {
	if s.Verbose {
		fmt.Fprintf(s.output(), "%12s  %s\n", status, msg)
	}
}

func (s *Service) isTerminal() bool {
	if s.IsTerminal != nil {
		return s.IsTerminal(s.output())
	}
	return ui.IsTerminal(s.output())
}

// ResolveRepo turns a repository argument (a path, a configured name, or
// empty for the default) into a repository path and checks it exists.
func (s *Service) ResolveRepo(arg string) (string, error) {
	repo, err := s.Config.ResolveRepo(arg)
	if err != nil {
		return "", err
	}
	if err := CheckRepository(repo); err != nil {
		return "", err
	}
	s.sayStatus("repo", fmt.Sprintf("Using %s", ui.DisplayPath(repo)))
	return repo, nil
}

// CheckRepository checks that dir looks like a Subversion repository, which
// always carries a top-level format file.
func CheckRepository(dir string) error {
	info, err := os.Stat(filepath.Join(dir, "format"))
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", errs.ErrNotRepository, ui.DisplayPath(dir))
	}
	return nil
}

// Run executes an operation against the repository named by repoArg and
// writes its result.
func (s *Service) Run(ctx context.Context, op svnlook.Operation, repoArg string, req svnlook.Request) error {
	d, err := svnlook.Lookup(string(op))
	if err != nil {
		return err
	}
	repo, err := s.ResolveRepo(repoArg)
	if err != nil {
		return err
	}
	req.Repo = repo
	return s.exec(ctx, d, req)
}

func (s *Service) exec(ctx context.Context, d svnlook.Descriptor, req svnlook.Request) error {
	if d.Op == svnlook.OpCat {
		return s.cat(ctx, d, req)
	}

	if cmd, err := s.Client.Command(d, req); err == nil {
		s.sayStatus("run", cmd.String())
	}
	res, err := s.Client.Exec(ctx, d.Op, req)
	if err != nil {
		return err
	}

	if s.JSON {
		return s.writeJSON(d, res)
	}
	s.render(d, req, res)
	return nil
}

func (s *Service) cat(ctx context.Context, d svnlook.Descriptor, req svnlook.Request) error {
	if cmd, err := s.Client.Command(d, req); err == nil {
		s.sayStatus("run", cmd.String())
	}
	content, err := s.Client.CatBytes(ctx, req.Repo, req.Target, req.Options)
	if err != nil {
		return err
	}

	if s.JSON {
		if isBinary(content) {
			return fmt.Errorf("%w: %s", errs.ErrBinaryJSON, req.Target)
		}
		return s.writeJSON(d, &svnlook.Result{Op: d.Op, Raw: content, Text: string(content)})
	}

	if isBinary(content) && s.isTerminal() {
		confirmed, err := s.ConfirmFn(fmt.Sprintf("'%s' looks like a binary file. Print it to the terminal anyway?", req.Target))
		if err != nil {
			return err
		}
		if !confirmed {
			s.sayColor(fmt.Sprintf("Aborting. '%s' was not printed.", req.Target), "yellow")
			return nil
		}
	}

	_, err = s.output().Write(content)
	return err
}

func isBinary(b []byte) bool {
	return bytes.IndexByte(b, 0) >= 0 || !utf8.Valid(b)
}

func (s *Service) render(d svnlook.Descriptor, req svnlook.Request, res *svnlook.Result) {
	switch d.Shape {
	case svnlook.ShapeInfo:
		ui.PrintTable(s.output(), [][]string{
			{ui.Bold("Author:"), res.Info.Author},
			{ui.Bold("Date:"), res.Info.Date},
			{ui.Bold("Size:"), res.Info.Size},
			{ui.Bold("Message:"), res.Info.Message},
		}, 0)
	case svnlook.ShapeLock:
		if len(res.Lock) == 0 {
			s.sayColor(fmt.Sprintf("No lock on '%s'.", req.Target), "yellow")
			return
		}
		ui.PrintFields(s.output(), res.Lock, 0)
	case svnlook.ShapeXML:
		s.renderProps(req, res.Props)
	default:
		fmt.Fprint(s.output(), res.Text)
	}
}

func (s *Service) renderProps(req svnlook.Request, tree map[string]any) {
	if len(tree) == 0 {
		s.sayColor(fmt.Sprintf("No properties on '%s'.", req.Target), "yellow")
		return
	}

	props := svnlook.Properties(tree)
	if len(props) == 0 {
		ui.PrintTree(s.output(), tree, 0)
		return
	}

	rows := lo.Map(props, func(p svnlook.Property, _ int) []string {
		row := []string{ui.Dim(p.Target), ui.Bold(p.Name)}
		if p.Value != "" {
			row = append(row, p.Value)
		}
		return row
	})
	ui.PrintTable(s.output(), rows, 0)
}

func (s *Service) writeJSON(d svnlook.Descriptor, res *svnlook.Result) error {
	var v any
	switch d.Shape {
	case svnlook.ShapeInfo:
		v = res.Info
	case svnlook.ShapeLock:
		v = res.Lock
	case svnlook.ShapeXML:
		v = res.Props
	default:
		v = map[string]string{"output": res.Text}
	}
	enc := json.NewEncoder(s.output())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Pick shows a menu of every operation, asks for whatever the chosen one
// needs, and runs it.
func (s *Service) Pick(ctx context.Context, repoArg string, opts *svnlook.Options) error {
	repo, err := s.ResolveRepo(repoArg)
	if err != nil {
		return err
	}

	descriptors := svnlook.Descriptors()
	labels := lo.Map(descriptors, func(d svnlook.Descriptor, _ int) string {
		return fmt.Sprintf("%-13s %s", d.Op, d.Summary)
	})
	values := lo.Map(descriptors, func(d svnlook.Descriptor, _ int) string {
		return string(d.Op)
	})

	choice, err := s.SelectFn(fmt.Sprintf("Inspect %s:", ui.DisplayPath(repo)), labels, values)
	if err != nil {
		return err
	}
	if choice == "" {
		s.sayColor("Aborting. No operation was selected.", "yellow")
		return nil
	}

	d, err := svnlook.Lookup(choice)
	if err != nil {
		return err
	}

	req := svnlook.Request{Repo: repo, Options: opts}
	if d.NeedsProperty {
		if req.Property, err = s.InputFn("Property name:"); err != nil {
			return err
		}
	}
	if d.NeedsTarget {
		if req.Target, err = s.InputFn("Path in repository:"); err != nil {
			return err
		}
	}

	return s.exec(ctx, d, req)
}

// ListRepos shows the named repositories and which one is the default.
func (s *Service) ListRepos() error {
	repos, err := s.Config.Repos()
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		s.say("No repositories configured.")
		return nil
	}

	defaultRepo := s.Config.DefaultRepo()
	names := lo.Keys(repos)
	slices.Sort(names)

	rows := lo.Map(names, func(name string, _ int) []string {
		row := []string{ui.Bold(name), ui.Dim(ui.DisplayPath(repos[name]))}
		if name == defaultRepo || repos[name] == defaultRepo {
			row = append(row, ui.Green("(default)"))
		}
		return row
	})
	ui.PrintTable(s.output(), rows, 2)
	return nil
}
