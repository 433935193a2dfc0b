// ABOUTME: Ask command answers a single question from argument, file, or stdin
// ABOUTME: Prints the chosen answer and confidence, learning from the response
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nattapong/healthqa/internal/models"
)

var (
	askFile string
	askID   string
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question",
		Long: `Answer a single Thai healthcare question.

Multiple-choice questions with ก. ข. ค. ง. options are answered with
the chosen label(s); questions without options get a free-text answer.
Facts learned from the answer are cached for later questions.

Examples:
  healthqa ask "ยาพาราเซตามอลใช้รักษาอะไร ก. ลดไข้ ข. ลดความดัน ค. ละลายเสมหะ ง. แก้แพ้"
  healthqa ask --file question.txt
  cat question.txt | healthqa ask`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askFile, "file", "", "Read question from file")
	cmd.Flags().StringVar(&askID, "id", "cli", "Question identifier")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	var text string
	if askFile != "" {
		data, err := os.ReadFile(askFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no question provided")
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := models.NewQuestion(askID, text)
	if err != nil {
		return err
	}

	answer := a.answerer.Answer(cmd.Context(), q)
	if answer.Failed() {
		return fmt.Errorf("answering failed: %s", answer.Error)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Confidence: %.2f\n", answer.Confidence)
	}
	return nil
}
