// ABOUTME: Thai multiple-choice question parsing
// ABOUTME: Handles single-line CSV format and multi-line choice-per-line format
package core

import (
	"regexp"
	"strings"

	"github.com/nattapong/healthqa/internal/models"
)

var (
	// choiceMarker finds "ก. " style enumerators preceded by start or space.
	// Go regexps have no lookahead, so single-line parsing slices the text
	// between marker positions instead.
	choiceMarker = regexp.MustCompile(`(?:^|\s)([ก-ง])\.\s*`)

	// choiceLine matches one choice on its own line
	choiceLine = regexp.MustCompile(`^([ก-ง])[.\s]+(.+)$`)
)

// ParseQuestion splits a question's text into stem and labelled choices.
// A question with no recognizable enumerators stays open-ended (zero
// choices); that is valid input, not an error.
func ParseQuestion(q *models.Question) {
	text := strings.TrimSpace(q.Text)

	hasMarker := false
	for _, marker := range []string{"ก.", "ข.", "ค.", "ง."} {
		if strings.Contains(text, marker) {
			hasMarker = true
			break
		}
	}
	if !hasMarker {
		return
	}

	if strings.Contains(text, "\n") {
		parseMultiLine(q, text)
	} else {
		parseSingleLine(q, text)
	}
}

// parseSingleLine handles "คำถาม? ก. ตัวเลือก ข. ตัวเลือก ..." on one line
func parseSingleLine(q *models.Question, text string) {
	locs := choiceMarker.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return
	}

	choices := make(map[string]string)
	var labels []string

	for i, loc := range locs {
		label := text[loc[2]:loc[3]]
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		choiceText := strings.TrimSpace(text[start:end])
		if choiceText == "" {
			continue
		}
		if _, seen := choices[label]; !seen {
			labels = append(labels, label)
		}
		choices[label] = choiceText
	}

	if len(choices) == 0 {
		return
	}

	q.Choices = choices
	q.Labels = labels
	q.Text = strings.TrimSpace(text[:locs[0][0]])
}

// parseMultiLine handles the question stem followed by one choice per line
func parseMultiLine(q *models.Question, text string) {
	var questionLines []string
	choices := make(map[string]string)
	var labels []string
	inChoices := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := choiceLine.FindStringSubmatch(line); m != nil {
			inChoices = true
			label, choiceText := m[1], strings.TrimSpace(m[2])
			if _, seen := choices[label]; !seen {
				labels = append(labels, label)
			}
			choices[label] = choiceText
		} else if !inChoices {
			questionLines = append(questionLines, line)
		}
	}

	if len(choices) == 0 {
		return
	}

	q.Choices = choices
	q.Labels = labels
	q.Text = strings.Join(questionLines, " ")
}
