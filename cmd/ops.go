package cmd

import (
	"fmt"
	"strings"

	"github.com/joelmoss/svnlook/pkg/svnlook"
	"github.com/spf13/cobra"
)

func init() {
	for _, d := range svnlook.Descriptors() {
		rootCmd.AddCommand(newOpCmd(d))
	}
}

// positionals returns the names of the arguments an operation takes after
// the repository.
func positionals(d svnlook.Descriptor) []string {
	var names []string
	if d.NeedsProperty {
		names = append(names, "PROP")
	}
	if d.NeedsTarget {
		names = append(names, "PATH")
	}
	return names
}

func newOpCmd(d svnlook.Descriptor) *cobra.Command {
	names := positionals(d)
	var (
		revision    string
		transaction string
		limit       int
		extensions  string
	)

	cmd := &cobra.Command{
		Use:     strings.Join(append([]string{string(d.Op), "[REPO]"}, names...), " "),
		Aliases: d.Aliases,
		Short:   d.Summary,
		Long:    fmt.Sprintf("%s.\n\nREPO is a repository path or a name added with `svnlook-go repo add`. It may be omitted when a default repository is set.", d.Summary),
		Args:    cobra.RangeArgs(len(names), len(names)+1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newService()

			var repoArg string
			if len(args) > len(names) {
				repoArg, args = args[0], args[1:]
			}

			opts := baseOptions(svc.Config)
			opts.Revision = revision
			opts.Transaction = transaction
			opts.Limit = limit
			if cmd.Flags().Changed("extensions") {
				opts.Extensions = svnlook.Extensions(strings.TrimSpace(extensions))
			}

			req := svnlook.Request{Options: opts}
			if d.NeedsProperty {
				req.Property, args = args[0], args[1:]
			}
			if d.NeedsTarget {
				req.Target = args[0]
			}
			return svc.Run(cmd.Context(), d.Op, repoArg, req)
		},
	}

	flags := cmd.Flags()
	if d.Accepts(svnlook.FlagRevision) {
		flags.StringVarP(&revision, "revision", "r", "", "Revision to inspect (default youngest)")
	}
	if d.Accepts(svnlook.FlagTransaction) {
		flags.StringVarP(&transaction, "transaction", "t", "", "Uncommitted transaction to inspect")
	}
	if d.Accepts(svnlook.FlagLimit) {
		flags.IntVarP(&limit, "limit", "l", 0, "Maximum number of history entries")
	}
	if d.Accepts(svnlook.FlagExtensions) {
		flags.StringVar(&extensions, "extensions", "", "Options passed to the diff program, as --extensions=OPTS (bare flag for unified)")
		flags.Lookup("extensions").NoOptDefVal = " "
	}
	return cmd
}
