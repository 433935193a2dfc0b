// ABOUTME: CacheManager mediates between the extractor and the fact store
// ABOUTME: Thresholds relevance, normalizes dedup keys, serializes writes
package core

import (
	"log"

	"github.com/nattapong/healthqa/internal/models"
	"github.com/nattapong/healthqa/internal/storage"
)

// sourceQuestionLimit caps provenance text stored with each fact
const sourceQuestionLimit = 100

// CacheManager owns the write discipline for the knowledge cache. The
// underlying store's lock admits one writer at a time system-wide; reads run
// concurrently and observe either the pre- or post-write state.
type CacheManager struct {
	store     *storage.Storage
	threshold float64
	topK      int
}

// NewCacheManager creates a manager with the given relevance threshold
func NewCacheManager(store *storage.Storage, threshold float64, topK int) *CacheManager {
	return &CacheManager{store: store, threshold: threshold, topK: topK}
}

// AddExtractedInformation persists candidates with sufficient relevance.
// Returns how many were stored, counting both fresh inserts and merges.
// Persistence failures are logged and never stop the remaining candidates.
func (cm *CacheManager) AddExtractedInformation(candidates []models.CandidateFact, sourceQuestion string) int {
	added := 0
	for _, c := range candidates {
		if c.RelevanceScore < cm.threshold {
			continue
		}

		fact, err := models.NewFact(c.FactType, c.Key, c.Value, c.RelevanceScore)
		if err != nil {
			log.Printf("Warning: dropping invalid candidate fact: %v", err)
			continue
		}
		fact.Context = c.Context
		fact.SourceQuestion = truncateRunes(sourceQuestion, sourceQuestionLimit)

		if err := cm.store.SaveFact(fact); err != nil {
			// In-memory state is updated even when the durable write
			// fails; the next flush retries it.
			log.Printf("Warning: %v", err)
		}
		added++
	}
	return added
}

// SearchKnowledge returns up to topK cached facts relevant to the query.
// Never fails: an empty store or no matches yields an empty slice.
func (cm *CacheManager) SearchKnowledge(query string, topK int) []models.Fact {
	if topK <= 0 {
		topK = cm.topK
	}
	return cm.store.SearchFacts(query, topK)
}

// Summary exposes the fact store's aggregate stats
func (cm *CacheManager) Summary() storage.Stats {
	return cm.store.Stats()
}

// Flush forces pending durable writes, used by batch checkpoints
func (cm *CacheManager) Flush() error {
	return cm.store.Flush()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
