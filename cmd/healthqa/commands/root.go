// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Execute is the single entry point used by main
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthqa",
		Short: "Thai healthcare question answering with a learning knowledge cache",
		Long: `healthqa answers Thai-language healthcare multiple-choice questions.

Each answered question teaches the system: facts extracted from answers
are scored, deduplicated, and cached so later questions reuse what
earlier questions learned. Questions can be answered one at a time,
in concurrent batches from CSV files, or over HTTP and MCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewKnowledgeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
