// ABOUTME: Durable fact store with an in-memory index and SQLite write-through
// ABOUTME: Falls back to memory-only operation when the database is unusable
package storage

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/nattapong/healthqa/internal/models"
	"github.com/nattapong/healthqa/internal/storage/sqlite"
)

// ErrPersistence wraps durable-layer failures. The in-memory state stays
// authoritative; failed writes are retried on the next Flush.
var ErrPersistence = fmt.Errorf("persistence error")

// Storage owns the fact cache and the ingested document corpus.
// Writes are exclusive, reads run concurrently; a reader never observes a
// partially merged fact.
type Storage struct {
	db    *sqlite.DB
	facts *sqlite.FactStore
	docs  *sqlite.DocumentStore

	mu     sync.RWMutex
	byKey  map[string]*models.Fact
	dirty  map[string]struct{}
	chunks []models.DocumentChunk
}

// Stats summarizes the fact store
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	FactTypes    map[string]int `json:"fact_types"`
	Oldest       time.Time      `json:"oldest,omitempty"`
	Newest       time.Time      `json:"newest,omitempty"`
	CorpusChunks int            `json:"corpus_chunks"`
	Persistent   bool           `json:"persistent"`
}

// Open loads the store from dbPath. An unreadable or corrupt database is
// never fatal: the store starts empty in memory-only mode.
func Open(dbPath string) *Storage {
	s := &Storage{
		byKey: make(map[string]*models.Fact),
		dirty: make(map[string]struct{}),
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Printf("Warning: knowledge cache not persistent: %v", err)
		return s
	}

	s.db = db
	s.facts = sqlite.NewFactStore(db)
	s.docs = sqlite.NewDocumentStore(db)

	if facts, err := s.facts.LoadAll(); err != nil {
		log.Printf("Warning: could not load cached facts, starting empty: %v", err)
	} else {
		for i := range facts {
			f := facts[i]
			s.byKey[f.DedupKey()] = &f
		}
	}

	if chunks, err := s.docs.LoadAll(); err != nil {
		log.Printf("Warning: could not load document corpus: %v", err)
	} else {
		s.chunks = chunks
	}

	return s
}

// Close flushes pending writes and closes the database
func (s *Storage) Close() error {
	if err := s.Flush(); err != nil {
		log.Printf("Warning: flush on close failed: %v", err)
	}
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Persistent reports whether the durable layer is available
func (s *Storage) Persistent() bool {
	return s.db != nil
}

// SaveFact upserts a fact under the (fact_type, key) dedup rule. A merge
// keeps the existing id and creation time and takes the newer value when it
// materially differs. Returns ErrPersistence when only the durable write
// failed; the in-memory state is updated either way.
func (s *Storage) SaveFact(fact *models.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fact.DedupKey()
	stored := fact

	if existing, ok := s.byKey[key]; ok {
		if strings.TrimSpace(existing.Value) != strings.TrimSpace(fact.Value) {
			existing.Value = fact.Value
			existing.Context = fact.Context
			existing.SourceQuestion = fact.SourceQuestion
			existing.RelevanceScore = fact.RelevanceScore
		}
		stored = existing
	} else {
		copied := *fact
		s.byKey[key] = &copied
		stored = &copied
	}

	if s.facts == nil {
		return nil
	}
	if err := s.facts.Save(stored); err != nil {
		s.dirty[key] = struct{}{}
		return fmt.Errorf("%w: saving fact %s: %v", ErrPersistence, stored.ID, err)
	}
	delete(s.dirty, key)
	return nil
}

// ListFacts returns all facts ordered by creation time then id
func (s *Storage) ListFacts() []models.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedFactsLocked()
}

func (s *Storage) sortedFactsLocked() []models.Fact {
	facts := make([]models.Fact, 0, len(s.byKey))
	for _, f := range s.byKey {
		facts = append(facts, *f)
	}
	sort.Slice(facts, func(i, j int) bool {
		if !facts[i].CreatedAt.Equal(facts[j].CreatedAt) {
			return facts[i].CreatedAt.Before(facts[j].CreatedAt)
		}
		return facts[i].ID < facts[j].ID
	})
	return facts
}

// SearchFacts ranks facts by keyword match count over key+value+context,
// weighted by relevance score, most recent first on ties. An empty store or
// a query with no matches returns an empty slice, never an error.
func (s *Storage) SearchFacts(query string, topK int) []models.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := queryWords(query)
	if len(words) == 0 || topK <= 0 {
		return []models.Fact{}
	}

	type scored struct {
		fact  models.Fact
		score float64
	}
	var matched []scored

	for _, f := range s.byKey {
		text := strings.ToLower(f.Key + " " + f.Value + " " + f.Context)
		matches := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		matched = append(matched, scored{
			fact:  *f,
			score: float64(matches) * (1 + f.RelevanceScore/10),
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].fact.CreatedAt.After(matched[j].fact.CreatedAt)
	})

	if len(matched) > topK {
		matched = matched[:topK]
	}
	results := make([]models.Fact, len(matched))
	for i, m := range matched {
		results[i] = m.fact
	}
	return results
}

// queryWords normalizes a query: trim, lowercase, strip punctuation, split
func queryWords(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, query)

	var words []string
	for _, w := range strings.Fields(cleaned) {
		// Tokens of one or two runes are noise, not search terms
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// Stats returns aggregate information about the store
func (s *Storage) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		TotalEntries: len(s.byKey),
		FactTypes:    make(map[string]int),
		CorpusChunks: len(s.chunks),
		Persistent:   s.db != nil,
	}
	for _, f := range s.byKey {
		st.FactTypes[f.FactType]++
		if st.Oldest.IsZero() || f.CreatedAt.Before(st.Oldest) {
			st.Oldest = f.CreatedAt
		}
		if f.CreatedAt.After(st.Newest) {
			st.Newest = f.CreatedAt
		}
	}
	return st
}

// Clear empties the fact store, in memory and on disk
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey = make(map[string]*models.Fact)
	s.dirty = make(map[string]struct{})

	if s.facts == nil {
		return nil
	}
	if err := s.facts.DeleteAll(); err != nil {
		return fmt.Errorf("%w: clearing facts: %v", ErrPersistence, err)
	}
	return nil
}

// Flush retries any fact writes that previously failed. Safe to call
// concurrently with readers; it takes the same write lock as SaveFact so a
// checkpoint never persists a torn store.
func (s *Storage) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.facts == nil || len(s.dirty) == 0 {
		return nil
	}

	var lastErr error
	for key := range s.dirty {
		fact, ok := s.byKey[key]
		if !ok {
			delete(s.dirty, key)
			continue
		}
		if err := s.facts.Save(fact); err != nil {
			lastErr = err
			continue
		}
		delete(s.dirty, key)
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %d facts still unflushed: %v", ErrPersistence, len(s.dirty), lastErr)
	}
	return nil
}

// ExportText writes a human-readable dump of all facts grouped by fact_type
func (s *Storage) ExportText(w io.Writer) error {
	facts := s.ListFacts()

	byType := make(map[string][]models.Fact)
	var types []string
	for _, f := range facts {
		if _, ok := byType[f.FactType]; !ok {
			types = append(types, f.FactType)
		}
		byType[f.FactType] = append(byType[f.FactType], f)
	}
	sort.Strings(types)

	fmt.Fprintf(w, "Knowledge cache export: %d facts, %s\n", len(facts), time.Now().Format(time.RFC3339))
	for _, t := range types {
		fmt.Fprintf(w, "\n## %s\n", t)
		for _, f := range byType[t] {
			fmt.Fprintf(w, "- %s: %s", f.Key, f.Value)
			if f.Context != "" {
				fmt.Fprintf(w, " (%s)", f.Context)
			}
			fmt.Fprintf(w, " [relevance %.0f, %s]\n", f.RelevanceScore, f.CreatedAt.Format("2006-01-02"))
		}
	}
	return nil
}
