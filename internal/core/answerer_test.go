// ABOUTME: Tests for the end-to-end single-question answering flow
// ABOUTME: Generation, degraded retrieval, and the learning feedback loop
package core

import (
	"context"
	"errors"
	"testing"

	"github.com/nattapong/healthqa/internal/models"
)

// scriptedGenerator returns responses in order across calls
type scriptedGenerator struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	i := g.calls
	g.calls++
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	return g.responses[i], nil
}

// failingRetriever always fails
type failingRetriever struct{}

func (r *failingRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.ChunkSearchResult, error) {
	return nil, ErrRetrieval
}

func TestAnswerer_MultipleChoice(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"คำตอบ: ค"}}
	answerer := NewAnswerer(gen, nil, nil, nil, DefaultAnswerOptions())

	q := &models.Question{
		ID:   "q1",
		Text: "ยาพาราเซตามอลใช้รักษาอะไร ก. ลดไข้ ข. ลดความดัน ค. ละลายเสมหะ ง. แก้แพ้",
	}

	answer := answerer.Answer(context.Background(), q)
	if answer.Failed() {
		t.Fatalf("unexpected failure: %s", answer.Error)
	}
	if answer.Text != "ค" {
		t.Errorf("answer = %q, want ค", answer.Text)
	}
	if answer.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", answer.Confidence)
	}
}

func TestAnswerer_OpenEnded(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"  ควรใช้ยาตามขนาดที่แพทย์กำหนด  "}}
	answerer := NewAnswerer(gen, nil, nil, nil, DefaultAnswerOptions())

	q := &models.Question{ID: "q2", Text: "อธิบายการใช้ยาอย่างปลอดภัย"}

	answer := answerer.Answer(context.Background(), q)
	if answer.Text != "ควรใช้ยาตามขนาดที่แพทย์กำหนด" {
		t.Errorf("answer = %q", answer.Text)
	}
}

func TestAnswerer_GenerationFailure(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("generation timed out")}
	answerer := NewAnswerer(gen, nil, nil, nil, DefaultAnswerOptions())

	q := &models.Question{ID: "q3", Text: "คำถาม ก. หนึ่ง ข. สอง"}

	answer := answerer.Answer(context.Background(), q)
	if !answer.Failed() {
		t.Fatal("expected failed answer")
	}
	if answer.QuestionID != "q3" {
		t.Errorf("QuestionID = %q", answer.QuestionID)
	}
	if answer.Text != "" {
		t.Errorf("failed answer should carry no text, got %q", answer.Text)
	}
}

func TestAnswerer_RetrievalFailureDegrades(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"ก"}}
	answerer := NewAnswerer(gen, &failingRetriever{}, nil, nil, DefaultAnswerOptions())

	q := &models.Question{ID: "q4", Text: "คำถาม ก. หนึ่ง ข. สอง"}

	answer := answerer.Answer(context.Background(), q)
	if answer.Failed() {
		t.Fatalf("retrieval failure must not fail the answer: %s", answer.Error)
	}
	if answer.Text != "ก" {
		t.Errorf("answer = %q, want ก", answer.Text)
	}
}

func TestAnswerer_LearnsFromExchange(t *testing.T) {
	store := newTestStore(t)
	cache := NewCacheManager(store, 5, 3)

	gen := &scriptedGenerator{responses: []string{
		"คำตอบ: ก",
		`{"facts": [{"type": "drug_info", "key": "พาราเซตามอล", "value": "ลดไข้"}], "relevance_score": 8}`,
	}}
	answerer := NewAnswerer(gen, nil, cache, NewExtractor(gen), DefaultAnswerOptions())

	q := &models.Question{ID: "q5", Text: "ยาพาราเซตามอลใช้ทำอะไร ก. ลดไข้ ข. แก้แพ้"}

	answerer.Answer(context.Background(), q)

	if got := cache.Summary().TotalEntries; got != 1 {
		t.Errorf("cached facts = %d, want 1", got)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 (answer + extraction)", gen.calls)
	}
}

func TestAnswerer_NoLearningFromNotFound(t *testing.T) {
	store := newTestStore(t)
	cache := NewCacheManager(store, 5, 3)

	gen := &scriptedGenerator{responses: []string{"ไม่พบข้อมูลในเอกสาร"}}
	answerer := NewAnswerer(gen, nil, cache, NewExtractor(gen), DefaultAnswerOptions())

	q := &models.Question{ID: "q6", Text: "คำถาม ก. หนึ่ง ข. สอง"}

	answer := answerer.Answer(context.Background(), q)
	if answer.Text != Sentinel {
		t.Errorf("answer = %q, want sentinel", answer.Text)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (no extraction call)", gen.calls)
	}
	if got := cache.Summary().TotalEntries; got != 0 {
		t.Errorf("cached facts = %d, want 0", got)
	}
}
