package cmd

import (
	"os"

	"github.com/joelmoss/svnlook/internal/config"
	"github.com/joelmoss/svnlook/internal/inspect"
	"github.com/joelmoss/svnlook/internal/ui"
	"github.com/joelmoss/svnlook/pkg/svnlook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	jsonOut    bool
	configPath string
	executable string
	maxBuffer  int
	workDir    string
	showWindow bool
	versionStr = "dev"
)

func SetVersion(v string) {
	versionStr = v
}

var rootCmd = &cobra.Command{
	Use:          "svnlook-go",
	Short:        "Inspect Subversion repositories",
	Long:         "Inspect Subversion repositories and transactions by running svnlook and rendering its output.",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print detailed and verbose output")
	flags.BoolVar(&jsonOut, "json", false, "Print results as JSON")
	flags.StringVar(&configPath, "config", "", "Path to the config file (default ~/.config/svnlook/config.json)")
	flags.StringVar(&executable, "svnlook", "", "Path to the svnlook executable")
	flags.IntVar(&maxBuffer, "max-buffer", 0, "Largest output svnlook may produce, in bytes")
	flags.StringVar(&workDir, "dir", "", "Working directory for svnlook")
	flags.BoolVar(&showWindow, "show-window", false, "Let svnlook open a console window (Windows only)")
}

func Execute() error {
	return rootCmd.Execute()
}

func newConfig() *config.Config {
	return config.New(configPath)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newService() *inspect.Service {
	cfg := newConfig()
	client := svnlook.New(newLogger())
	client.Executable = cfg.Executable()
	if executable != "" {
		client.Executable = executable
	}

	return &inspect.Service{
		Client:    client,
		Config:    cfg,
		Out:       os.Stdout,
		Verbose:   verbose,
		JSON:      jsonOut,
		SelectFn:  ui.Select,
		ConfirmFn: ui.Confirm,
		InputFn:   ui.Input,
	}
}

// baseOptions returns the per-call options shared by every operation.
func baseOptions(cfg *config.Config) *svnlook.Options {
	opts := &svnlook.Options{
		Dir:        workDir,
		MaxBuffer:  cfg.MaxBuffer(),
		ShowWindow: showWindow,
	}
	if maxBuffer > 0 {
		opts.MaxBuffer = maxBuffer
	}
	return opts
}
