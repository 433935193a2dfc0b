// ABOUTME: Corpus ingestion: split policy documents into pages, embed, store
// ABOUTME: Page markers follow the "--- Page N ---" convention of the corpus
package core

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nattapong/healthqa/internal/models"
	"github.com/nattapong/healthqa/internal/storage"
)

var pageMarker = regexp.MustCompile(`--- Page \d+ ---`)

// Ingestor loads healthcare documents into the retrievable corpus
type Ingestor struct {
	embed Embedder
	store *storage.Storage
}

// NewIngestor creates an Ingestor. embed may be nil; chunks are then stored
// without vectors and skipped by similarity search.
func NewIngestor(embed Embedder, store *storage.Storage) *Ingestor {
	return &Ingestor{embed: embed, store: store}
}

// IngestFile splits one UTF-8 document on page markers and stores each
// non-empty page as a chunk. Returns the number of chunks stored.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	pages := pageMarker.Split(string(content), -1)
	stored := 0

	for i, page := range pages {
		text := strings.TrimSpace(page)
		if text == "" {
			continue
		}

		chunk := &models.DocumentChunk{
			ID:        "chunk_" + uuid.New().String(),
			Source:    path,
			Page:      i,
			Text:      text,
			CreatedAt: time.Now(),
		}

		if ing.embed != nil {
			vector, err := ing.embed.Embed(ctx, text)
			if err != nil {
				log.Printf("Warning: chunk %s stored without embedding: %v", chunk.ID, err)
			} else {
				chunk.Vector = vector
			}
		}

		if err := ing.store.SaveChunk(chunk); err != nil {
			return stored, err
		}
		stored++
	}

	return stored, nil
}
