// ABOUTME: Tests for choice-label extraction from model output
// ABOUTME: Covers no-answer phrases, multi-answer runs, and idempotence
package core

import "testing"

func TestExtractChoices(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		want           string
		wantConfidence float64
	}{
		{"answer phrase", "คำตอบ: ค", "ค", 0.85},
		{"answer phrase with คือ", "คำตอบคือ ข", "ข", 0.85},
		{"bracketed", "จากข้อมูลที่มี [ง] เป็นตัวเลือกที่เหมาะสม", "ง", 0.85},
		{"bare label", "ก", "ก", 0.85},
		{"leading label with reason", "ข เพราะช่วยลดความดันโลหิต", "ข", 0.85},
		{"ตอบ prefix", "ตอบ ง", "ง", 0.85},
		{"เลือก prefix", "เลือก ค เนื่องจากตรงกับอาการ", "ค", 0.85},
		{"comma run", "ข, ง", "ข, ง", 0.9},
		{"comma run with chatter", "คำตอบที่ถูกต้องคือ ก, ค", "ก, ค", 0.9},
		{"and run", "ก และ ค", "ก, ค", 0.9},
		{"duplicate labels collapse", "ก, ก, ข", "ก, ข", 0.9},
		{"no answer phrase", "ไม่มีข้อมูลเพียงพอ", Sentinel, 0},
		{"explicit sentinel", "ไม่มีคำตอบที่ถูกต้อง", Sentinel, 0},
		{"apology", "ขออภัย ฉันตอบไม่ได้", Sentinel, 0},
		{"empty", "", Sentinel, 0},
		{"whitespace only", "   ", Sentinel, 0},
		{"no labels at all", "555 0000", Sentinel, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, confidence := ExtractChoices(tt.response)
			if got != tt.want {
				t.Errorf("ExtractChoices(%q) = %q, want %q", tt.response, got, tt.want)
			}
			if confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", confidence, tt.wantConfidence)
			}
		})
	}
}

func TestExtractChoices_FallbackCharacter(t *testing.T) {
	// No pattern matches, but a label character appears somewhere
	got, confidence := ExtractChoices("อืม... ง น่าจะใช่")
	if got != "ง" {
		t.Errorf("got %q, want ง", got)
	}
	if confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", confidence)
	}
}

func TestExtractChoices_Idempotent(t *testing.T) {
	// Running extraction on its own output must not change it
	inputs := []string{
		"คำตอบ: ค",
		"ข, ง",
		"ก และ ข และ ง",
		"ไม่มีข้อมูลเพียงพอ",
		"ง",
	}

	for _, in := range inputs {
		first, _ := ExtractChoices(in)
		second, _ := ExtractChoices(first)
		if first != second {
			t.Errorf("not idempotent on %q: %q then %q", in, first, second)
		}
	}
}

func TestIsWellFormed(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"ก", true},
		{"ข, ง", true},
		{"ก, ข, ค, ง", true},
		{Sentinel, true},
		{"", false},
		{"ก,ข", false},
		{"ก, ก", false},
		{"จ", false},
		{"กข", false},
	}

	for _, tt := range tests {
		if got := IsWellFormed(tt.answer); got != tt.want {
			t.Errorf("IsWellFormed(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}
