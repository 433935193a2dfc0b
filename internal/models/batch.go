// ABOUTME: Aggregate metadata for one batch run
// ABOUTME: Stats are updated per completed question and finalized at batch end
package models

import "time"

// ProcessingStats tracks per-run counters
type ProcessingStats struct {
	TotalQuestions int       `json:"total_questions"`
	Successful     int       `json:"successful"`
	Errors         int       `json:"errors"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
}

// SuccessRate returns the success percentage over all questions
func (s ProcessingStats) SuccessRate() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.TotalQuestions) * 100
}

// Duration returns the wall-clock batch duration
func (s ProcessingStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// BatchResult is the final outcome of a batch run, answers in input order
type BatchResult struct {
	Answers    []Answer        `json:"answers"`
	Stats      ProcessingStats `json:"stats"`
	OutputFile string          `json:"output_file,omitempty"`
}
