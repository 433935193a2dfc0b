// ABOUTME: Corpus retrieval: embed the query, rank stored chunks by cosine
// ABOUTME: Failures surface as ErrRetrieval so the answerer can degrade
package core

import (
	"context"
	"fmt"

	"github.com/nattapong/healthqa/internal/models"
	"github.com/nattapong/healthqa/internal/storage"
)

// Retriever is the opaque vector-search collaborator
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.ChunkSearchResult, error)
}

// CorpusRetriever searches the ingested policy documents
type CorpusRetriever struct {
	embed Embedder
	store *storage.Storage
}

// NewCorpusRetriever creates a retriever over the stored corpus
func NewCorpusRetriever(embed Embedder, store *storage.Storage) *CorpusRetriever {
	return &CorpusRetriever{embed: embed, store: store}
}

// Retrieve returns the k most similar chunks to the query
func (r *CorpusRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.ChunkSearchResult, error) {
	if r.store.ChunkCount() == 0 {
		return nil, nil
	}

	vector, err := r.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	return r.store.SearchSimilarChunks(vector, k), nil
}
