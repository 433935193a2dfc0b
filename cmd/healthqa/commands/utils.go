// ABOUTME: Shared wiring and display helpers for CLI commands
// ABOUTME: Consolidates duplicate setup code from ask, batch, serve, mcp
package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/nattapong/healthqa/internal/config"
	"github.com/nattapong/healthqa/internal/core"
	"github.com/nattapong/healthqa/internal/llm"
	"github.com/nattapong/healthqa/internal/storage"
)

// app bundles the wired components a command needs
type app struct {
	cfg      *config.Config
	store    *storage.Storage
	client   *llm.Client
	cache    *core.CacheManager
	answerer *core.Answerer
}

// setup loads config, opens storage, and wires the answering pipeline.
// Callers must Close when done.
func setup() (*app, error) {
	// Load .env for API keys
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	client, err := llm.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing LLM client: %w", err)
	}

	store := storage.Open(cfg.DBPath())
	if !store.Persistent() && !quiet {
		log.Println("Warning: running in memory-only mode, learned facts will not survive restart")
	}

	cache := core.NewCacheManager(store, cfg.RelevanceThreshold, cfg.KnowledgeTopK)
	retriever := core.NewCorpusRetriever(client, store)
	extractor := core.NewExtractor(client)
	answerer := core.NewAnswerer(client, retriever, cache, extractor, core.AnswerOptions{
		CorpusTopK:      cfg.CorpusTopK,
		KnowledgeTopK:   cfg.KnowledgeTopK,
		MaxContextChars: cfg.MaxContextChars,
	})

	return &app{
		cfg:      cfg,
		store:    store,
		client:   client,
		cache:    cache,
		answerer: answerer,
	}, nil
}

// setupStore opens storage without an LLM client, for commands that only
// inspect or manage the knowledge cache
func setupStore() (*config.Config, *storage.Storage, error) {
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	store := storage.Open(cfg.DBPath())
	if !store.Persistent() && !quiet {
		log.Println("Warning: running in memory-only mode")
	}
	return cfg, store, nil
}

// Close flushes the knowledge cache and closes storage
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("Warning: closing storage: %v", err)
	}
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}
