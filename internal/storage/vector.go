// ABOUTME: Cosine similarity search over the ingested document corpus
// ABOUTME: Chunks and vectors are held in memory, persisted through SQLite
package storage

import (
	"fmt"
	"math"
	"sort"

	"github.com/nattapong/healthqa/internal/models"
)

// SaveChunk stores a document chunk with its embedding
func (s *Storage) SaveChunk(chunk *models.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.chunks {
		if s.chunks[i].ID == chunk.ID {
			s.chunks[i] = *chunk
			replaced = true
			break
		}
	}
	if !replaced {
		s.chunks = append(s.chunks, *chunk)
	}

	if s.docs == nil {
		return nil
	}
	if err := s.docs.Save(chunk); err != nil {
		return fmt.Errorf("%w: saving chunk %s: %v", ErrPersistence, chunk.ID, err)
	}
	return nil
}

// ChunkCount returns the number of chunks in the corpus
func (s *Storage) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// SearchSimilarChunks ranks corpus chunks by cosine similarity to the query
// vector. Chunks without a stored vector are skipped.
func (s *Storage) SearchSimilarChunks(queryVector []float64, maxResults int) []models.ChunkSearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(queryVector) == 0 || maxResults <= 0 {
		return nil
	}

	var results []models.ChunkSearchResult
	for _, chunk := range s.chunks {
		if len(chunk.Vector) == 0 {
			continue
		}
		results = append(results, models.ChunkSearchResult{
			Chunk: chunk,
			Score: CosineSimilarity(queryVector, chunk.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// CosineSimilarity calculates cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
