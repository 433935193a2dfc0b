// ABOUTME: Concurrent batch pipeline over a bounded worker pool
// ABOUTME: Exactly one output row per input row, checkpointed in input order
package batch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nattapong/healthqa/internal/config"
	"github.com/nattapong/healthqa/internal/core"
	"github.com/nattapong/healthqa/internal/models"
)

// QuestionAnswerer answers one question; the concrete implementation is
// core.Answerer, tests substitute a deterministic fake
type QuestionAnswerer interface {
	Answer(ctx context.Context, q *models.Question) models.Answer
}

// Options configure one batch run
type Options struct {
	Workers            int
	CheckpointInterval int
	OutputPath         string
	CleanFormat        bool
	Resume             bool
}

// Pipeline drives the answerer over a question list
type Pipeline struct {
	answerer QuestionAnswerer
	cache    *core.CacheManager
}

// New creates a pipeline. cache may be nil; checkpoints then skip the
// knowledge flush.
func New(answerer QuestionAnswerer, cache *core.CacheManager) *Pipeline {
	return &Pipeline{answerer: answerer, cache: cache}
}

// completion pairs a finished answer with its input position
type completion struct {
	idx    int
	answer models.Answer
}

// Run processes every question concurrently and returns answers in input
// order. Cancelling ctx stops dispatch, lets in-flight workers finish, and
// flushes completed rows; a failure to write the output file at all is the
// only fatal error.
func (p *Pipeline) Run(ctx context.Context, questions []models.Question, opts Options) (*models.BatchResult, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > config.MaxWorkers {
		workers = config.MaxWorkers
	}
	interval := opts.CheckpointInterval
	if interval < 1 {
		interval = 50
	}

	stats := models.ProcessingStats{
		TotalQuestions: len(questions),
		StartTime:      time.Now(),
	}

	answers := make(map[string]models.Answer, len(questions))
	var pending []int

	// Resume: re-emit previously checkpointed rows verbatim
	if opts.Resume && opts.OutputPath != "" {
		prior := ReadExistingAnswers(opts.OutputPath)
		for i, q := range questions {
			if cell, ok := prior[q.ID]; ok && isResumable(cell) {
				answers[q.ID] = models.Answer{QuestionID: q.ID, Text: cell}
				stats.Successful++
				continue
			}
			pending = append(pending, i)
		}
		if n := len(questions) - len(pending); n > 0 {
			log.Printf("Resuming: %d of %d rows already answered", n, len(questions))
		}
	} else {
		pending = make([]int, len(questions))
		for i := range questions {
			pending[i] = i
		}
	}

	// Fail fast when the output location is unusable at all. A probe, not a
	// write: a prior run's file stays intact until rows exist to replace it.
	if opts.OutputPath != "" {
		if err := probeOutput(opts.OutputPath); err != nil {
			return nil, fmt.Errorf("output file unusable: %w", err)
		}
	}

	jobs := make(chan int)
	completions := make(chan completion)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				completions <- completion{idx: idx, answer: p.answerOne(ctx, questions[idx])}
			}
		}()
	}

	// Dispatch stops on cancellation; in-flight questions still complete
	go func() {
		defer close(jobs)
		for _, idx := range pending {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(completions)
	}()

	done := 0
	for c := range completions {
		answers[c.answer.QuestionID] = c.answer
		if c.answer.Failed() {
			stats.Errors++
		} else {
			stats.Successful++
		}

		done++
		if done%interval == 0 {
			p.checkpoint(questions, answers, opts)
			log.Printf("Progress: %d/%d answered", done, len(pending))
		}
	}

	stats.EndTime = time.Now()
	p.checkpoint(questions, answers, opts)

	ordered := make([]models.Answer, 0, len(answers))
	for _, q := range questions {
		if ans, ok := answers[q.ID]; ok {
			ordered = append(ordered, ans)
		}
	}

	return &models.BatchResult{
		Answers:    ordered,
		Stats:      stats,
		OutputFile: opts.OutputPath,
	}, ctx.Err()
}

// answerOne isolates worker panics so a crashed worker still yields a row
func (p *Pipeline) answerOne(ctx context.Context, q models.Question) (answer models.Answer) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker panic on question %s: %v", q.ID, r)
			answer = models.Answer{QuestionID: q.ID, Error: fmt.Sprintf("worker panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return models.Answer{QuestionID: q.ID, Error: fmt.Sprintf("cancelled: %v", err)}
	}

	return p.answerer.Answer(ctx, &q)
}

// checkpoint persists completed rows in input order and flushes the
// knowledge cache. Write failures are logged; the next checkpoint retries.
func (p *Pipeline) checkpoint(questions []models.Question, answers map[string]models.Answer, opts Options) {
	if opts.OutputPath != "" && len(answers) > 0 {
		if err := WriteAnswers(opts.OutputPath, questions, answers, opts.CleanFormat); err != nil {
			log.Printf("Warning: checkpoint write failed, will retry: %v", err)
		}
	}
	if p.cache != nil {
		if err := p.cache.Flush(); err != nil {
			log.Printf("Warning: knowledge flush failed, will retry: %v", err)
		}
	}
}
