// ABOUTME: Question and Answer records for the batch answering pipeline
// ABOUTME: Choice labels are Thai consonant enumerators (ก ข ค ง)
package models

import (
	"fmt"
	"strings"
)

// Question is one row of a batch job. Choices may be empty for open-ended
// questions; Labels preserves presentation order.
type Question struct {
	ID      string            `json:"id"`
	Text    string            `json:"question"`
	Choices map[string]string `json:"choices,omitempty"`
	Labels  []string          `json:"labels,omitempty"`
}

// NewQuestion validates the caller-supplied id and text
func NewQuestion(id, text string) (*Question, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("question id cannot be empty")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("question text cannot be empty")
	}
	return &Question{ID: id, Text: text}, nil
}

// IsOpenEnded reports whether no choices were parsed from the text
func (q *Question) IsOpenEnded() bool {
	return len(q.Choices) == 0
}

// FormatChoices renders the choices for a prompt, in presentation order
func (q *Question) FormatChoices() string {
	var b strings.Builder
	for _, label := range q.Labels {
		if text, ok := q.Choices[label]; ok {
			fmt.Fprintf(&b, "%s. %s\n", label, text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Answer is the immutable outcome for one Question. Error carries the typed
// per-row failure string when the answering path failed; Text is empty then.
type Answer struct {
	QuestionID string  `json:"question_id"`
	Text       string  `json:"raw_answer"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Failed reports whether this row carries an error instead of an answer
func (a Answer) Failed() bool {
	return a.Error != ""
}
