// ABOUTME: Fact persistence operations for SQLite
// ABOUTME: Upserts are keyed by the normalized (fact_type, key) dedup identity
package sqlite

import (
	"database/sql"
	"time"

	"github.com/nattapong/healthqa/internal/models"
)

// FactStore handles fact persistence
type FactStore struct {
	db *DB
}

// NewFactStore creates a new FactStore
func NewFactStore(db *DB) *FactStore {
	return &FactStore{db: db}
}

// Save upserts a fact on its dedup key. A conflicting row keeps its own id
// and created_at but takes the newer value, context, and relevance.
func (s *FactStore) Save(fact *models.Fact) error {
	createdAt := fact.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO facts (id, fact_type, key, value, context, source_question, relevance_score, created_at, dedup_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dedup_key) DO UPDATE SET
			value = excluded.value,
			context = excluded.context,
			source_question = excluded.source_question,
			relevance_score = excluded.relevance_score
	`, fact.ID, fact.FactType, fact.Key, fact.Value, nullString(fact.Context),
		nullString(fact.SourceQuestion), fact.RelevanceScore, createdAt, fact.DedupKey())

	return err
}

// LoadAll returns every persisted fact, oldest first then by id
func (s *FactStore) LoadAll() ([]models.Fact, error) {
	rows, err := s.db.Query(`
		SELECT id, fact_type, key, value, context, source_question, relevance_score, created_at
		FROM facts
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return s.scanFacts(rows)
}

// DeleteAll empties the facts table
func (s *FactStore) DeleteAll() error {
	_, err := s.db.Exec("DELETE FROM facts")
	return err
}

// scanFacts scans rows into a slice of Fact
func (s *FactStore) scanFacts(rows *sql.Rows) ([]models.Fact, error) {
	var facts []models.Fact

	for rows.Next() {
		var (
			fact    models.Fact
			context sql.NullString
			sourceQ sql.NullString
		)

		err := rows.Scan(&fact.ID, &fact.FactType, &fact.Key, &fact.Value,
			&context, &sourceQ, &fact.RelevanceScore, &fact.CreatedAt)
		if err != nil {
			return nil, err
		}

		if context.Valid {
			fact.Context = context.String
		}
		if sourceQ.Valid {
			fact.SourceQuestion = sourceQ.String
		}

		facts = append(facts, fact)
	}

	return facts, rows.Err()
}

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
