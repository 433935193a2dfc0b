// ABOUTME: Knowledge Extractor proposes candidate facts from a Q/A exchange
// ABOUTME: Malformed model output yields zero facts, never a failed exchange
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nattapong/healthqa/internal/models"
)

// Generator is the opaque language-model collaborator
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder is the opaque embedding collaborator
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Extractor turns one question/answer exchange into candidate facts
type Extractor struct {
	gen Generator
}

// NewExtractor creates an Extractor backed by the given model
func NewExtractor(gen Generator) *Extractor {
	return &Extractor{gen: gen}
}

// extractionResult mirrors the structured-output prompt's JSON shape
type extractionResult struct {
	Facts []struct {
		Type    string `json:"type"`
		Key     string `json:"key"`
		Value   string `json:"value"`
		Context string `json:"context"`
	} `json:"facts"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Extract proposes zero or more candidate facts from an exchange. Zero facts
// is the normal case; thresholding is the cache manager's job, not ours.
func (e *Extractor) Extract(ctx context.Context, question, answer string) ([]models.CandidateFact, error) {
	output, err := e.gen.Generate(ctx, buildExtractionPrompt(question, answer))
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	result, err := parseExtractionJSON(output)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.CandidateFact, 0, len(result.Facts))
	for _, f := range result.Facts {
		if strings.TrimSpace(f.Key) == "" || strings.TrimSpace(f.Value) == "" {
			continue
		}
		factType := f.Type
		if strings.TrimSpace(factType) == "" {
			factType = "general"
		}
		candidates = append(candidates, models.CandidateFact{
			FactType:       factType,
			Key:            f.Key,
			Value:          f.Value,
			Context:        f.Context,
			RelevanceScore: result.RelevanceScore,
		})
	}

	return candidates, nil
}

// parseExtractionJSON recovers the JSON object from surrounding model chatter
func parseExtractionJSON(output string) (*extractionResult, error) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in output", ErrExtractionParse)
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(output[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	return &result, nil
}
