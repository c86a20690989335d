package cmd

import (
	"fmt"

	"github.com/joelmoss/svnlook/internal/ui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the svnlook executable in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := newService()
		fmt.Fprintln(cmd.OutOrStdout(), versionStr)
		if verbose {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Dim("svnlook: "+svc.Client.Executable))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
