// ABOUTME: Canonical choice-label extraction from free-form model output
// ABOUTME: Multi-answer runs are checked before single-answer patterns
package core

import (
	"regexp"
	"strings"
)

// Sentinel is the fixed answer meaning no valid choice could be determined
const Sentinel = "ไม่มีคำตอบที่ถูกต้อง"

// noAnswerPhrases short-circuit extraction before any label matching
var noAnswerPhrases = []string{
	"ไม่มีคำตอบที่ถูกต้อง",
	"ไม่มีข้อใดถูกต้อง",
	"ไม่มีตัวเลือกที่ถูกต้อง",
	"ไม่พบข้อมูล",
	"ไม่มีข้อมูล",
	"ข้อมูลไม่เพียงพอ",
	"ไม่สามารถ",
	"ขออภัย",
}

var (
	commaRun      = regexp.MustCompile(`[ก-ง](?:\s*,\s*[ก-ง])+`)
	andRun        = regexp.MustCompile(`[ก-ง](?:\s*และ\s*[ก-ง])+`)
	answerSection = regexp.MustCompile(`(?:คำตอบ|ตอบ|เลือก|ข้อ)[:\s]*(.+)$`)
	labelChar     = regexp.MustCompile(`[ก-ง]`)

	// Single-answer patterns, first match wins
	singlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\[([ก-ง])\]`),
		// A label at the start only counts when it is a whole word, so the
		// leading consonant of prose like "คำตอบ" never matches
		regexp.MustCompile(`^([ก-ง])(?:$|[^\p{Thai}])`),
		regexp.MustCompile(`คำตอบ[:\s]*(?:คือ\s*)?([ก-ง])`),
		regexp.MustCompile(`ตอบ[:\s]*([ก-ง])`),
		regexp.MustCompile(`เลือก\s*([ก-ง])`),
		regexp.MustCompile(`([ก-ง])\s*(?:คือ|เป็น)`),
	}

	// prose words that disqualify a trailing-section label run
	sectionProseWords = []string{"คือ", "เป็น", "คำตอบ", "ข้อ"}
)

// ExtractChoices reduces a model reply to its selected choice labels.
// Returns the canonical answer (labels joined ", ", or the sentinel) and a
// confidence score. Idempotent on canonical input.
func ExtractChoices(response string) (string, float64) {
	text := strings.ToLower(strings.TrimSpace(response))
	if text == "" {
		return Sentinel, 0
	}

	for _, phrase := range noAnswerPhrases {
		if strings.Contains(text, phrase) {
			return Sentinel, 0
		}
	}

	if answer, ok := extractMulti(text); ok {
		confidence := 0.9
		if !strings.Contains(answer, ",") {
			confidence = 0.85
		}
		return answer, confidence
	}

	for _, pattern := range singlePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1], 0.85
		}
	}

	// Last resort: first label character anywhere
	if c := labelChar.FindString(text); c != "" {
		return c, 0.7
	}

	return Sentinel, 0
}

// extractMulti looks for a run of two or more labels: comma-joined first,
// then "และ"-joined, then a bare run inside a trailing answer section
func extractMulti(text string) (string, bool) {
	if m := commaRun.FindString(text); m != "" {
		return joinDistinct(labelChar.FindAllString(m, -1)), true
	}

	if m := andRun.FindString(text); m != "" {
		return joinDistinct(labelChar.FindAllString(m, -1)), true
	}

	// A bare run like "ก ข ง" counts only inside the trailing answer-marker
	// section, never in the echoed question text
	section := ""
	if sm := answerSection.FindStringSubmatch(text); sm != nil {
		section = sm[1]
	} else {
		runes := []rune(text)
		if len(runes) > 50 {
			runes = runes[len(runes)-50:]
		}
		section = string(runes)
	}

	for _, word := range sectionProseWords {
		if strings.Contains(section, word) {
			return "", false
		}
	}

	// Only standalone label tokens count: the same consonants appear inside
	// ordinary Thai words and must not be read as choices
	var labels []string
	for _, tok := range strings.Fields(section) {
		tok = strings.Trim(tok, ".,:;()[]")
		if len([]rune(tok)) == 1 && labelChar.MatchString(tok) {
			labels = append(labels, tok)
		}
	}
	labels = distinct(labels)
	if len(labels) >= 2 && len(labels) <= 4 {
		return strings.Join(labels, ", "), true
	}

	return "", false
}

// IsWellFormed reports whether an answer string is canonical: exactly the
// sentinel, or a comma-separated list of distinct known labels
func IsWellFormed(answer string) bool {
	if answer == Sentinel {
		return true
	}
	parts := strings.Split(answer, ", ")
	seen := make(map[string]bool)
	for _, p := range parts {
		if !labelChar.MatchString(p) || len([]rune(p)) != 1 || seen[p] {
			return false
		}
		seen[p] = true
	}
	return len(parts) > 0
}

// distinct removes duplicate labels preserving first-seen order
func distinct(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func joinDistinct(labels []string) string {
	return strings.Join(distinct(labels), ", ")
}
