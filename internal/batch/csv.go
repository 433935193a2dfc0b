// ABOUTME: CSV reading and writing for batch question files
// ABOUTME: Output is written to a temp file and renamed so checkpoints never tear
package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nattapong/healthqa/internal/models"
)

// errorCellPrefix marks a typed per-row failure in the answer column
const errorCellPrefix = "Error: "

// ReadQuestions loads a batch input file. The header must contain id and
// question columns; a row with an empty id or question fails the whole file.
func ReadQuestions(path string) ([]models.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	idCol, questionCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			idCol = i
		case "question":
			questionCol = i
		}
	}
	if idCol < 0 || questionCol < 0 {
		return nil, fmt.Errorf("%s: header must contain id and question columns", path)
	}

	var questions []models.Question
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		row++

		if idCol >= len(record) || questionCol >= len(record) {
			return nil, fmt.Errorf("%s row %d: missing id or question column", path, row)
		}

		q, err := models.NewQuestion(record[idCol], record[questionCol])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		questions = append(questions, *q)
	}

	return questions, nil
}

// WriteAnswers persists answers in input order. Full format is
// id,question,answer; clean format is id,answer only. The write goes through
// a temp file and rename so a crash mid-write leaves the previous checkpoint
// intact.
func WriteAnswers(path string, questions []models.Question, answers map[string]models.Answer, clean bool) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".checkpoint-*.csv")
	if err != nil {
		return fmt.Errorf("creating checkpoint file: %w", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)

	header := []string{"id", "question", "answer"}
	if clean {
		header = []string{"id", "answer"}
	}
	if err := writer.Write(header); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	for _, q := range questions {
		ans, ok := answers[q.ID]
		if !ok {
			continue
		}

		cell := ans.Text
		if ans.Failed() {
			cell = errorCellPrefix + ans.Error
		}

		record := []string{q.ID, q.Text, cell}
		if clean {
			record = []string{q.ID, cell}
		}
		if err := writer.Write(record); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

// probeOutput verifies the output location is writable without touching a
// file already at path
func probeOutput(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".checkpoint-*.csv")
	if err != nil {
		return err
	}
	_ = tmp.Close()
	return os.Remove(tmp.Name())
}

// ReadExistingAnswers loads a previous output file for resume. A missing or
// unreadable file resumes nothing.
func ReadExistingAnswers(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil
	}

	idCol, answerCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			idCol = i
		case "answer":
			answerCol = i
		}
	}
	if idCol < 0 || answerCol < 0 {
		return nil
	}

	answers := make(map[string]string)
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if idCol >= len(record) || answerCol >= len(record) {
			continue
		}
		answers[record[idCol]] = record[answerCol]
	}
	return answers
}

// isResumable reports whether a previously written answer cell can be
// re-emitted verbatim instead of re-answering the question
func isResumable(cell string) bool {
	return strings.TrimSpace(cell) != "" && !strings.HasPrefix(cell, errorCellPrefix)
}
