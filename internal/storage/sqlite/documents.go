// ABOUTME: Document chunk persistence for the policy corpus
// ABOUTME: Embedding vectors are stored as little-endian float64 BLOBs
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"math"
	"time"

	"github.com/nattapong/healthqa/internal/models"
)

// DocumentStore handles corpus chunk persistence
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save upserts a chunk with its embedding vector
func (s *DocumentStore) Save(chunk *models.DocumentChunk) error {
	createdAt := chunk.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var blob []byte
	if len(chunk.Vector) > 0 {
		blob = vectorToBlob(chunk.Vector)
	}

	_, err := s.db.Exec(`
		INSERT INTO document_chunks (id, source, page, text, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			page = excluded.page,
			text = excluded.text,
			vector = excluded.vector
	`, chunk.ID, chunk.Source, chunk.Page, chunk.Text, blob, createdAt)

	return err
}

// LoadAll returns every chunk with its vector decoded
func (s *DocumentStore) LoadAll() ([]models.DocumentChunk, error) {
	rows, err := s.db.Query(`
		SELECT id, source, page, text, vector, created_at
		FROM document_chunks
		ORDER BY source ASC, page ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var (
			chunk models.DocumentChunk
			blob  []byte
		)
		if err := rows.Scan(&chunk.ID, &chunk.Source, &chunk.Page, &chunk.Text, &blob, &chunk.CreatedAt); err != nil {
			return nil, err
		}
		if len(blob) > 0 {
			chunk.Vector = blobToVector(blob)
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// Count returns the number of stored chunks
func (s *DocumentStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM document_chunks").Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// DeleteBySource removes all chunks ingested from one source file
func (s *DocumentStore) DeleteBySource(source string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM document_chunks WHERE source = ?", source)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// vectorToBlob converts a float64 slice to a binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to a float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
