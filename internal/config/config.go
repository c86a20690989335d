package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joelmoss/svnlook/internal/errs"
	"github.com/joelmoss/svnlook/pkg/svnlook"
)

const (
	KeyExecutable  = "executable"
	KeyMaxBuffer   = "max_buffer"
	KeyDefaultRepo = "default_repo"
	keyRepos       = "repos"
)

// Config manages the svnlook configuration stored at ~/.config/svnlook/config.json.
type Config struct {
	path string
}

// New creates a Config. If configPath is empty, uses the default location.
func New(configPath string) *Config {
	if configPath == "" {
		home, _ := os.UserHomeDir()
		configPath = filepath.Join(home, ".config", "svnlook", "config.json")
	}
	return &Config{path: configPath}
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.path
}

// Read returns the config data as a map, or an empty map if the file doesn't exist.
func (c *Config) Read() (map[string]any, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.path, err)
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Write persists the config data to disk, creating directories as needed.
func (c *Config) Write(data map[string]any) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, b, 0o644)
}

// Executable returns the configured svnlook binary, or "svnlook" from PATH.
func (c *Config) Executable() string {
	data, err := c.Read()
	if err != nil {
		return svnlook.DefaultExecutable
	}
	if exe, ok := data[KeyExecutable].(string); ok && exe != "" {
		return expandPath(exe)
	}
	return svnlook.DefaultExecutable
}

// MaxBuffer returns the configured output ceiling in bytes, or 0 when unset.
func (c *Config) MaxBuffer() int {
	data, err := c.Read()
	if err != nil {
		return 0
	}
	// encoding/json decodes numbers into float64
	if n, ok := data[KeyMaxBuffer].(float64); ok && n > 0 {
		return int(n)
	}
	return 0
}

// DefaultRepo returns the repository used when none is given on the command line.
func (c *Config) DefaultRepo() string {
	data, err := c.Read()
	if err != nil {
		return ""
	}
	if repo, ok := data[KeyDefaultRepo].(string); ok {
		return expandPath(repo)
	}
	return ""
}

// Set stores a single top-level setting after validating it.
func (c *Config) Set(key, value string) error {
	var v any
	switch key {
	case KeyExecutable, KeyDefaultRepo:
		v = value
	case KeyMaxBuffer:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive number of bytes, got %q", errs.ErrInvalidConfig, key, value)
		}
		v = n
	default:
		return fmt.Errorf("%w: unknown key %q", errs.ErrInvalidConfig, key)
	}

	data, err := c.Read()
	if err != nil {
		return err
	}
	data[key] = v
	return c.Write(data)
}

// AddRepo stores a short name for a repository path.
func (c *Config) AddRepo(name, repoPath string) error {
	data, err := c.Read()
	if err != nil {
		return err
	}

	repos, ok := data[keyRepos].(map[string]any)
	if !ok {
		repos = map[string]any{}
		data[keyRepos] = repos
	}
	repos[name] = repoPath

	return c.Write(data)
}

// RemoveRepo removes a named repository. If no names remain, the repos key is removed.
func (c *Config) RemoveRepo(name string) error {
	data, err := c.Read()
	if err != nil {
		return err
	}

	repos, ok := data[keyRepos].(map[string]any)
	if !ok {
		return nil
	}

	delete(repos, name)

	if len(repos) == 0 {
		delete(data, keyRepos)
	}

	return c.Write(data)
}

// Repos returns all named repositories.
func (c *Config) Repos() (map[string]string, error) {
	data, err := c.Read()
	if err != nil {
		return nil, err
	}

	result := map[string]string{}
	repos, _ := data[keyRepos].(map[string]any)
	for name, v := range repos {
		if p, ok := v.(string); ok {
			result[name] = expandPath(p)
		}
	}
	return result, nil
}

// ResolveRepo maps a repository argument to a path. Named repositories win
// over paths; an empty argument falls back to the default repository.
func (c *Config) ResolveRepo(arg string) (string, error) {
	if arg == "" {
		if repo := c.DefaultRepo(); repo != "" {
			return c.ResolveRepo(repo)
		}
		return "", errs.ErrNoRepository
	}

	repos, err := c.Repos()
	if err != nil {
		return "", err
	}
	if p, ok := repos[arg]; ok {
		return p, nil
	}
	return expandPath(arg), nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
