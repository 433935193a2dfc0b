// ABOUTME: Tests for the storage layer: merge rules, search, persistence
// ABOUTME: Memory-only fallback must keep every operation working
package storage

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nattapong/healthqa/internal/models"
)

func testFact(t *testing.T, factType, key, value string, relevance float64) *models.Fact {
	t.Helper()
	fact, err := models.NewFact(factType, key, value, relevance)
	if err != nil {
		t.Fatalf("creating test fact: %v", err)
	}
	return fact
}

func TestStorage_SaveAndReload(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := Open(dbPath)
	if !store.Persistent() {
		t.Fatal("store should be persistent with a writable path")
	}

	fact := testFact(t, "drug_info", "พาราเซตามอล", "ลดไข้", 8)
	if err := store.SaveFact(fact); err != nil {
		t.Fatalf("saving: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	reopened := Open(dbPath)
	defer func() { _ = reopened.Close() }()

	facts := reopened.ListFacts()
	if len(facts) != 1 {
		t.Fatalf("got %d facts after reload, want 1", len(facts))
	}
	if facts[0].Key != "พาราเซตามอล" || facts[0].Value != "ลดไข้" {
		t.Errorf("reloaded fact = %+v", facts[0])
	}
}

func TestStorage_MergeKeepsIdentity(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	first := testFact(t, "drug_info", "ยาแก้ไอ", "เดิม", 5)
	if err := store.SaveFact(first); err != nil {
		t.Fatal(err)
	}

	second := testFact(t, "drug_info", "ยาแก้ไอ", "ปรับปรุงแล้ว", 8)
	if err := store.SaveFact(second); err != nil {
		t.Fatal(err)
	}

	facts := store.ListFacts()
	if len(facts) != 1 {
		t.Fatalf("got %d facts, want 1", len(facts))
	}
	if facts[0].ID != first.ID {
		t.Errorf("merge must keep the existing id: got %s, want %s", facts[0].ID, first.ID)
	}
	if facts[0].Value != "ปรับปรุงแล้ว" {
		t.Errorf("merge must take the newer value, got %q", facts[0].Value)
	}
	if facts[0].RelevanceScore != 8 {
		t.Errorf("relevance = %v, want 8", facts[0].RelevanceScore)
	}
}

func TestStorage_MergeIgnoresIdenticalValue(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	first := testFact(t, "general", "k", "same value", 5)
	if err := store.SaveFact(first); err != nil {
		t.Fatal(err)
	}

	// Whitespace-only difference is not material
	second := testFact(t, "general", "k", "  same value  ", 9)
	if err := store.SaveFact(second); err != nil {
		t.Fatal(err)
	}

	facts := store.ListFacts()
	if facts[0].RelevanceScore != 5 {
		t.Errorf("immaterial change should not update the fact, relevance = %v", facts[0].RelevanceScore)
	}
}

func TestStorage_SearchFacts(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	low := testFact(t, "general", "paracetamol dosage", "500mg per dose", 2)
	high := testFact(t, "drug_info", "paracetamol effects", "paracetamol reduces fever", 9)
	other := testFact(t, "general", "blood pressure", "unrelated", 9)

	for _, f := range []*models.Fact{low, high, other} {
		if err := store.SaveFact(f); err != nil {
			t.Fatal(err)
		}
	}

	results := store.SearchFacts("paracetamol fever", 10)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// high matches both words and carries more relevance weight
	if results[0].ID != high.ID {
		t.Errorf("first result = %s, want the higher-scored fact", results[0].ID)
	}

	if got := store.SearchFacts("ไม่มีคำนี้ในคลัง", 10); len(got) != 0 {
		t.Errorf("no-match query should return empty slice, got %d", len(got))
	}
	// Two-rune tokens are too short to search on, even as substrings
	if got := store.SearchFacts("mg", 10); len(got) != 0 {
		t.Errorf("short-token query should return empty slice, got %d", len(got))
	}
	if got := store.SearchFacts("", 10); len(got) != 0 {
		t.Errorf("empty query should return empty slice, got %d", len(got))
	}
}

func TestStorage_SearchFacts_TopK(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	for _, key := range []string{"alpha fever", "beta fever", "gamma fever"} {
		if err := store.SaveFact(testFact(t, "general", key, "about fever", 5)); err != nil {
			t.Fatal(err)
		}
	}

	if got := store.SearchFacts("fever", 2); len(got) != 2 {
		t.Errorf("got %d results, want topK=2", len(got))
	}
}

func TestStorage_MemoryFallback(t *testing.T) {
	// A directory cannot be opened as a database file; the store must come
	// up empty and non-persistent instead of failing
	store := Open(t.TempDir())
	defer func() { _ = store.Close() }()

	if store.Persistent() {
		t.Skip("backend accepted the path, fallback not exercised")
	}

	fact := testFact(t, "general", "k", "v", 5)
	if err := store.SaveFact(fact); err != nil {
		t.Fatalf("memory-only save should succeed: %v", err)
	}
	if got := len(store.ListFacts()); got != 1 {
		t.Errorf("got %d facts, want 1", got)
	}
	if err := store.Flush(); err != nil {
		t.Errorf("memory-only flush should be a no-op: %v", err)
	}
}

func TestStorage_Stats(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	if err := store.SaveFact(testFact(t, "drug_info", "a", "v", 5)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveFact(testFact(t, "drug_info", "b", "v", 5)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveFact(testFact(t, "general", "c", "v", 5)); err != nil {
		t.Fatal(err)
	}

	stats := store.Stats()
	if stats.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", stats.TotalEntries)
	}
	if stats.FactTypes["drug_info"] != 2 || stats.FactTypes["general"] != 1 {
		t.Errorf("FactTypes = %v", stats.FactTypes)
	}
	if stats.Oldest.IsZero() || stats.Newest.Before(stats.Oldest) {
		t.Errorf("timestamps inconsistent: oldest %v newest %v", stats.Oldest, stats.Newest)
	}
	if !stats.Persistent {
		t.Error("expected persistent store")
	}
}

func TestStorage_Clear(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	if err := store.SaveFact(testFact(t, "general", "k", "v", 5)); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing: %v", err)
	}
	if got := store.Stats().TotalEntries; got != 0 {
		t.Errorf("TotalEntries = %d after clear, want 0", got)
	}
}

func TestStorage_ExportText(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	fact := testFact(t, "drug_info", "พาราเซตามอล", "ลดไข้", 7)
	fact.Context = "ยาสามัญ"
	if err := store.SaveFact(fact); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := store.ExportText(&buf); err != nil {
		t.Fatalf("exporting: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"## drug_info", "พาราเซตามอล", "ลดไข้", "ยาสามัญ"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}

func TestStorage_ConcurrentReadsAndWrites(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "test.db"))
	defer func() { _ = store.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			f := testFact(t, "general", "key "+string(rune('a'+i%26)), "value", 5)
			_ = store.SaveFact(f)
		}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-done:
			if got := store.Stats().TotalEntries; got == 0 {
				t.Error("no facts stored")
			}
			return
		case <-deadline:
			t.Fatal("writer did not finish")
		default:
			_ = store.SearchFacts("value", 3)
			_ = store.ListFacts()
		}
	}
}
