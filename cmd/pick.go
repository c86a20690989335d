package cmd

import (
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:     "pick [REPO]",
	Aliases: []string{"p"},
	Short:   "Choose an operation from a menu and run it",
	Long:    "Show a menu of every svnlook operation, ask for the property name and path the chosen one needs, and run it against the youngest revision.",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		var repoArg string
		if len(args) > 0 {
			repoArg = args[0]
		}
		return svc.Pick(cmd.Context(), repoArg, baseOptions(svc.Config))
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}
