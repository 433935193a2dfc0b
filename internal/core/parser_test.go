// ABOUTME: Tests for Thai multiple-choice question parsing
// ABOUTME: Covers single-line, multi-line, and open-ended inputs
package core

import (
	"testing"

	"github.com/nattapong/healthqa/internal/models"
)

func TestParseQuestion_SingleLine(t *testing.T) {
	q := &models.Question{
		ID:   "q1",
		Text: "ยาพาราเซตามอลใช้รักษาอะไร ก. ลดไข้ ข. ลดความดัน ค. ละลายเสมหะ ง. แก้แพ้",
	}

	ParseQuestion(q)

	if q.Text != "ยาพาราเซตามอลใช้รักษาอะไร" {
		t.Errorf("stem = %q", q.Text)
	}
	want := map[string]string{
		"ก": "ลดไข้",
		"ข": "ลดความดัน",
		"ค": "ละลายเสมหะ",
		"ง": "แก้แพ้",
	}
	if len(q.Choices) != len(want) {
		t.Fatalf("got %d choices, want %d", len(q.Choices), len(want))
	}
	for label, text := range want {
		if q.Choices[label] != text {
			t.Errorf("choice %s = %q, want %q", label, q.Choices[label], text)
		}
	}
	if len(q.Labels) != 4 || q.Labels[0] != "ก" || q.Labels[3] != "ง" {
		t.Errorf("labels = %v", q.Labels)
	}
}

func TestParseQuestion_MultiLine(t *testing.T) {
	q := &models.Question{
		ID:   "q2",
		Text: "ยาตัวใดเป็นยาปฏิชีวนะ\nก. พาราเซตามอล\nข. อะม็อกซีซิลลิน\nค. วิตามินซี",
	}

	ParseQuestion(q)

	if q.Text != "ยาตัวใดเป็นยาปฏิชีวนะ" {
		t.Errorf("stem = %q", q.Text)
	}
	if len(q.Choices) != 3 {
		t.Fatalf("got %d choices, want 3", len(q.Choices))
	}
	if q.Choices["ข"] != "อะม็อกซีซิลลิน" {
		t.Errorf("choice ข = %q", q.Choices["ข"])
	}
}

func TestParseQuestion_OpenEnded(t *testing.T) {
	q := &models.Question{ID: "q3", Text: "อธิบายวิธีใช้ยาพาราเซตามอลอย่างปลอดภัย"}

	ParseQuestion(q)

	if !q.IsOpenEnded() {
		t.Error("question without enumerators should stay open-ended")
	}
	if q.Text != "อธิบายวิธีใช้ยาพาราเซตามอลอย่างปลอดภัย" {
		t.Errorf("text changed: %q", q.Text)
	}
}

func TestParseQuestion_PartialChoices(t *testing.T) {
	// Only two options present; both must be captured
	q := &models.Question{ID: "q4", Text: "ข้อใดถูกต้อง ก. ถูก ข. ผิด"}

	ParseQuestion(q)

	if len(q.Choices) != 2 {
		t.Fatalf("got %d choices, want 2", len(q.Choices))
	}
	if q.Choices["ก"] != "ถูก" || q.Choices["ข"] != "ผิด" {
		t.Errorf("choices = %v", q.Choices)
	}
}

func TestParseQuestion_MarkerInsideWordIgnored(t *testing.T) {
	// "ค." style markers must be preceded by a space or line start; the
	// consonants appearing inside words never start a choice
	q := &models.Question{ID: "q5", Text: "โรคเบาหวานเกิดจากอะไร ก. น้ำตาลสูง ข. ความดันต่ำ"}

	ParseQuestion(q)

	if len(q.Choices) != 2 {
		t.Fatalf("got %d choices, want 2: %v", len(q.Choices), q.Choices)
	}
	if q.Text != "โรคเบาหวานเกิดจากอะไร" {
		t.Errorf("stem = %q", q.Text)
	}
}
