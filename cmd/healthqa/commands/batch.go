// ABOUTME: Batch command answers a CSV of questions over a worker pool
// ABOUTME: Supports checkpointing, resume, and graceful interruption
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nattapong/healthqa/internal/batch"
)

var (
	batchOutput     string
	batchWorkers    int
	batchCheckpoint int
	batchClean      bool
	batchResume     bool
)

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <input.csv>",
		Short: "Answer a CSV of questions concurrently",
		Long: `Answer every question in a CSV file using a bounded worker pool.

The input file needs "id" and "question" columns. Output is written as
id,question,answer (or id,answer with --clean) in input order, with a
checkpoint after every N completed questions. Interrupting the run keeps
completed rows; --resume skips rows already answered in the output file.

Examples:
  healthqa batch questions.csv
  healthqa batch questions.csv --workers 32 --output answers.csv
  healthqa batch questions.csv --resume`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Output CSV path (default: <input>_answers.csv)")
	cmd.Flags().IntVar(&batchWorkers, "workers", 0, "Worker count (default from HEALTHQA_WORKERS)")
	cmd.Flags().IntVar(&batchCheckpoint, "checkpoint-interval", 0, "Checkpoint every N questions (default from HEALTHQA_CHECKPOINT_INTERVAL)")
	cmd.Flags().BoolVar(&batchClean, "clean", false, "Write id,answer only")
	cmd.Flags().BoolVar(&batchResume, "resume", false, "Reuse answers already present in the output file")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	questions, err := batch.ReadQuestions(inputPath)
	if err != nil {
		return fmt.Errorf("reading questions: %w", err)
	}
	if len(questions) == 0 {
		return fmt.Errorf("no questions in %s", inputPath)
	}

	outputPath := batchOutput
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + "_answers.csv"
	}

	workers := batchWorkers
	if workers == 0 {
		workers = a.cfg.Workers
	}
	interval := batchCheckpoint
	if interval == 0 {
		interval = a.cfg.CheckpointInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Answering %d questions with %d workers...\n", len(questions), workers)
	}

	pipeline := batch.New(a.answerer, a.cache)
	result, err := pipeline.Run(ctx, questions, batch.Options{
		Workers:            workers,
		CheckpointInterval: interval,
		OutputPath:         outputPath,
		CleanFormat:        batchClean,
		Resume:             batchResume,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if result != nil && !quiet {
		stats := result.Stats
		fmt.Fprintf(cmd.OutOrStdout(), "Done: %d/%d answered (%.1f%% success) in %s\n",
			stats.Successful, stats.TotalQuestions, stats.SuccessRate(), stats.Duration().Round(time.Millisecond))
		if stats.Errors > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Errors: %d (rerun with --resume to retry)\n", stats.Errors)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", result.OutputFile)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted, completed rows saved to %s", outputPath)
	}
	return nil
}
