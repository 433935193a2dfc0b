// ABOUTME: Ingest command loads reference documents into the corpus
// ABOUTME: Splits on page markers, embeds chunks, and stores vectors
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nattapong/healthqa/internal/core"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest reference documents into the retrieval corpus",
		Long: `Ingest one or more text files into the retrieval corpus.

Files are split into chunks on "--- Page N ---" markers (the whole file
becomes one chunk when no markers are present), each chunk is embedded,
and the vectors are stored for similarity search during answering.

Examples:
  healthqa ingest handbook.txt
  healthqa ingest docs/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ingestor := core.NewIngestor(a.client, a.store)

	total := 0
	for _, path := range args {
		n, err := ingestor.IngestFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		total += n
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chunks\n", path, n)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Ingested %d chunks from %d file(s), corpus now has %d chunks\n",
			total, len(args), a.store.ChunkCount())
	}
	return nil
}
