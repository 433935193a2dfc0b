// ABOUTME: Fact is one deduplicated unit of learned healthcare knowledge
// ABOUTME: Dedup identity is the normalized (fact_type, key) pair, not the ID
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fact represents an extracted piece of knowledge cached for future answers
type Fact struct {
	ID             string    `json:"id"`
	FactType       string    `json:"fact_type"`
	Key            string    `json:"key"`
	Value          string    `json:"value"`
	Context        string    `json:"context,omitempty"`
	SourceQuestion string    `json:"source_question,omitempty"`
	RelevanceScore float64   `json:"relevance_score"`
	CreatedAt      time.Time `json:"timestamp"`
}

// NewFact creates a validated Fact with a fresh ID and timestamp
func NewFact(factType, key, value string, relevance float64) (*Fact, error) {
	if strings.TrimSpace(factType) == "" {
		return nil, fmt.Errorf("fact_type cannot be empty")
	}
	if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("key and value cannot be empty")
	}
	if relevance < 0 || relevance > 10 {
		return nil, fmt.Errorf("relevance_score must be 0-10, got %f", relevance)
	}

	return &Fact{
		ID:             "fact_" + uuid.New().String(),
		FactType:       factType,
		Key:            key,
		Value:          value,
		RelevanceScore: relevance,
		CreatedAt:      time.Now(),
	}, nil
}

// DedupKey returns the normalized (fact_type, key) identity used for merging
func (f *Fact) DedupKey() string {
	return NormalizeKeyPart(f.FactType) + "\x00" + NormalizeKeyPart(f.Key)
}

// NormalizeKeyPart folds case and whitespace so near-identical keys collide
func NormalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// CandidateFact is an extractor proposal that has not passed the relevance
// threshold or dedup yet
type CandidateFact struct {
	FactType       string  `json:"type"`
	Key            string  `json:"key"`
	Value          string  `json:"value"`
	Context        string  `json:"context,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}
