// ABOUTME: Question Answerer: parse, retrieve context, generate, validate, learn
// ABOUTME: Learning is best-effort and never downgrades an already-produced answer
package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nattapong/healthqa/internal/models"
)

// knowledgeHeader introduces learned facts inside the prompt context
const knowledgeHeader = "=== ข้อมูลจากการเรียนรู้ก่อนหน้า ==="

// AnswerOptions tune context assembly
type AnswerOptions struct {
	CorpusTopK      int
	KnowledgeTopK   int
	MaxContextChars int
}

// DefaultAnswerOptions mirror the production defaults
func DefaultAnswerOptions() AnswerOptions {
	return AnswerOptions{CorpusTopK: 5, KnowledgeTopK: 3, MaxContextChars: 6000}
}

// Answerer orchestrates one question end to end
type Answerer struct {
	gen       Generator
	retriever Retriever
	cache     *CacheManager
	extractor *Extractor
	opts      AnswerOptions
}

// NewAnswerer wires the answering pipeline. retriever and extractor may be
// nil, disabling corpus context and learning respectively.
func NewAnswerer(gen Generator, retriever Retriever, cache *CacheManager, extractor *Extractor, opts AnswerOptions) *Answerer {
	if opts.CorpusTopK <= 0 {
		opts.CorpusTopK = 5
	}
	if opts.KnowledgeTopK <= 0 {
		opts.KnowledgeTopK = 3
	}
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = 6000
	}
	return &Answerer{gen: gen, retriever: retriever, cache: cache, extractor: extractor, opts: opts}
}

// Answer runs Parse, Retrieve, Generate, Extract&Validate, Learn for one
// question. Generation failure produces an Answer carrying a typed error;
// everything before and after degrades instead of failing.
func (a *Answerer) Answer(ctx context.Context, q *models.Question) models.Answer {
	ParseQuestion(q)

	contextBlock := a.buildContext(ctx, q.Text)

	var prompt string
	if q.IsOpenEnded() {
		prompt = buildOpenEndedPrompt(contextBlock, q.Text)
	} else {
		prompt = buildMCQPrompt(contextBlock, q)
	}

	raw, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return models.Answer{QuestionID: q.ID, Error: err.Error()}
	}

	answer := models.Answer{QuestionID: q.ID}
	if q.IsOpenEnded() {
		answer.Text = strings.TrimSpace(raw)
	} else {
		answer.Text, answer.Confidence = ExtractChoices(raw)
	}

	a.learn(ctx, q, raw)

	return answer
}

// buildContext concatenates corpus chunks and learned facts, most relevant
// first, truncated to the configured maximum
func (a *Answerer) buildContext(ctx context.Context, question string) string {
	var parts []string

	if a.retriever != nil {
		results, err := a.retriever.Retrieve(ctx, question, a.opts.CorpusTopK)
		if err != nil {
			// Best-effort answer with no context beats no answer
			log.Printf("Warning: corpus retrieval degraded to empty context: %v", err)
		}
		for _, r := range results {
			parts = append(parts, r.Chunk.Text)
		}
	}

	if a.cache != nil {
		facts := a.cache.SearchKnowledge(question, a.opts.KnowledgeTopK)
		if len(facts) > 0 {
			var b strings.Builder
			b.WriteString(knowledgeHeader + "\n")
			for _, f := range facts {
				fmt.Fprintf(&b, "• %s: %s - %s", f.FactType, f.Key, f.Value)
				if f.Context != "" {
					fmt.Fprintf(&b, " (%s)", f.Context)
				}
				b.WriteString("\n")
			}
			parts = append(parts, strings.TrimRight(b.String(), "\n"))
		}
	}

	return truncateRunes(strings.Join(parts, "\n\n"), a.opts.MaxContextChars)
}

// learn feeds the exchange back into the knowledge cache. Failures here are
// logged and swallowed; the answer has already been produced.
func (a *Answerer) learn(ctx context.Context, q *models.Question, rawAnswer string) {
	if a.extractor == nil || a.cache == nil {
		return
	}
	// Exchanges that found nothing teach nothing
	if strings.Contains(rawAnswer, "ไม่พบข้อมูล") {
		return
	}

	candidates, err := a.extractor.Extract(ctx, q.Text, rawAnswer)
	if err != nil {
		log.Printf("Warning: fact extraction skipped for question %s: %v", q.ID, err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	if added := a.cache.AddExtractedInformation(candidates, q.Text); added > 0 {
		log.Printf("Cached %d facts from question %s", added, q.ID)
	}
}
