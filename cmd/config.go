package cmd

import (
	"fmt"

	"github.com/joelmoss/svnlook/internal/config"
	"github.com/joelmoss/svnlook/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Long: fmt.Sprintf("Change a setting. Keys:\n\n  %-13s path to the svnlook executable\n  %-13s largest output svnlook may produce, in bytes\n  %-13s repository used when none is given",
		config.KeyExecutable, config.KeyMaxBuffer, config.KeyDefaultRepo),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newConfig().Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Green(fmt.Sprintf("Set %s to %s.", args[0], args[1])))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), newConfig().Path())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newConfig()
		if _, err := cfg.Read(); err != nil {
			return err
		}
		ui.PrintFields(cmd.OutOrStdout(), map[string]string{
			config.KeyExecutable:  cfg.Executable(),
			config.KeyMaxBuffer:   fmt.Sprint(baseOptions(cfg).MaxBuffer),
			config.KeyDefaultRepo: cfg.DefaultRepo(),
		}, 0)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configPathCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
