package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/joelmoss/svnlook/internal/config"
	"github.com/joelmoss/svnlook/internal/inspect"
	"github.com/joelmoss/svnlook/internal/ui"
	"github.com/spf13/cobra"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage named repositories",
	Long:  "Give repositories short names so they can be passed to operations in place of a path, and choose the default repository.",
}

var repoAddCmd = &cobra.Command{
	Use:     "add NAME PATH",
	Aliases: []string{"a"},
	Short:   "Name a repository",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath, err := filepath.Abs(args[1])
		if err != nil {
			return err
		}
		if err := inspect.CheckRepository(repoPath); err != nil {
			return err
		}
		if err := newConfig().AddRepo(args[0], repoPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Green(fmt.Sprintf("Added '%s' at %s.", args[0], ui.DisplayPath(repoPath))))
		return nil
	},
}

var repoRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm"},
	Short:   "Forget a named repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newConfig().RemoveRepo(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Green(fmt.Sprintf("Removed '%s'.", args[0])))
		return nil
	},
}

var repoListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List named repositories",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newService().ListRepos()
	},
}

var repoDefaultCmd = &cobra.Command{
	Use:   "default NAME|PATH",
	Short: "Set the repository used when none is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newConfig()
		repoPath, err := cfg.ResolveRepo(args[0])
		if err != nil {
			return err
		}
		if err := inspect.CheckRepository(repoPath); err != nil {
			return err
		}
		repos, err := cfg.Repos()
		if err != nil {
			return err
		}
		value := args[0]
		if _, named := repos[value]; !named {
			if value, err = filepath.Abs(repoPath); err != nil {
				return err
			}
		}
		if err := cfg.Set(config.KeyDefaultRepo, value); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Green(fmt.Sprintf("Default repository is now '%s'.", ui.DisplayPath(value))))
		return nil
	},
}

func init() {
	repoCmd.AddCommand(repoAddCmd, repoRemoveCmd, repoListCmd, repoDefaultCmd)
	rootCmd.AddCommand(repoCmd)
}
