// Package cmd holds the CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visualdiff",
		Short: "Visual regression comparison between two deployments",
		Long: `visualdiff captures each configured page from a baseline and a candidate
environment, computes a pixel-level difference, and compiles the results
into a report with baseline/candidate/diff artifacts per page.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewServeCommand())
	return cmd
}
