// ABOUTME: Knowledge command group for inspecting and managing the fact cache
// ABOUTME: Subcommands: search, stats, export, clear
package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var (
	knowledgeTopK  int
	clearConfirmed bool
)

// NewKnowledgeCmd creates the knowledge command group
func NewKnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Inspect and manage the learned knowledge cache",
		Long: `Inspect and manage facts learned from answered questions.

Examples:
  healthqa knowledge search "พาราเซตามอล"
  healthqa knowledge stats
  healthqa knowledge export facts.txt
  healthqa knowledge clear --yes`,
	}

	cmd.AddCommand(newKnowledgeSearchCmd())
	cmd.AddCommand(newKnowledgeStatsCmd())
	cmd.AddCommand(newKnowledgeExportCmd())
	cmd.AddCommand(newKnowledgeClearCmd())

	return cmd
}

func newKnowledgeSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cached facts by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := setupStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			facts := store.SearchFacts(args[0], knowledgeTopK)
			if len(facts) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching facts")
				}
				return nil
			}

			for _, f := range facts {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s (relevance %.0f, %s)\n",
					f.FactType, f.Key, truncate(f.Value, 80), f.RelevanceScore, formatTime(f.CreatedAt))
				if verbose && f.Context != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    context: %s\n", truncate(f.Context, 100))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&knowledgeTopK, "limit", "n", 10, "Maximum results")
	return cmd
}

func newKnowledgeStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := setupStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats := store.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Facts:         %d\n", stats.TotalEntries)
			fmt.Fprintf(cmd.OutOrStdout(), "Corpus chunks: %d\n", stats.CorpusChunks)
			fmt.Fprintf(cmd.OutOrStdout(), "Persistent:    %t\n", stats.Persistent)
			if !stats.Oldest.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "Oldest:        %s\n", formatTime(stats.Oldest))
				fmt.Fprintf(cmd.OutOrStdout(), "Newest:        %s\n", formatTime(stats.Newest))
			}

			if len(stats.FactTypes) > 0 {
				types := make([]string, 0, len(stats.FactTypes))
				for t := range stats.FactTypes {
					types = append(types, t)
				}
				sort.Strings(types)
				fmt.Fprintln(cmd.OutOrStdout(), "By type:")
				for _, t := range types {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", t, stats.FactTypes[t])
				}
			}
			return nil
		},
	}
}

func newKnowledgeExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export cached facts as readable text",
		Long:  `Export all cached facts grouped by type, to a file or stdout.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := setupStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			w := cmd.OutOrStdout()
			if len(args) > 0 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := store.ExportText(w); err != nil {
				return fmt.Errorf("exporting facts: %w", err)
			}
			if len(args) > 0 && !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", args[0])
			}
			return nil
		},
	}
}

func newKnowledgeClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached facts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearConfirmed {
				return fmt.Errorf("refusing to clear without --yes")
			}

			_, store, err := setupStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			before := store.Stats().TotalEntries
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clearing facts: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %d facts\n", before)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearConfirmed, "yes", false, "Confirm deletion")
	return cmd
}
