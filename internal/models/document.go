// ABOUTME: DocumentChunk is one retrievable slice of the policy corpus
// ABOUTME: Embedding vectors are stored alongside the chunk text in SQLite
package models

import "time"

// DocumentChunk is a page-sized slice of a healthcare policy document
type DocumentChunk struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Page      int       `json:"page"`
	Text      string    `json:"text"`
	Vector    []float64 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ChunkSearchResult pairs a chunk with its similarity to a query
type ChunkSearchResult struct {
	Chunk DocumentChunk
	Score float64
}
