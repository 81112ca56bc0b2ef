package rag

import (
	"context"
	"errors"
	"fmt"

	"lectureflow/internal/models"
	"lectureflow/internal/providers"
	"lectureflow/internal/vector"
)

const DefaultTopK = 5

// Retriever runs nearest-neighbor queries against a video's index. The
// query is embedded with the same provider used at indexing time so
// distances stay comparable.
type Retriever struct {
	store    vector.Store
	embedder providers.EmbeddingProvider
	embedDim int
}

func NewRetriever(store vector.Store, embedder providers.EmbeddingProvider, embedDim int) *Retriever {
	return &Retriever{store: store, embedder: embedder, embedDim: embedDim}
}

func (r *Retriever) Search(ctx context.Context, query, videoID string, topK int) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	vecs, _, err := r.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "query_embed",
		Inputs:    []string{query},
		Dimension: r.embedDim,
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedding provider returned no vectors")
	}

	matches, err := r.store.Search(ctx, videoID, vecs[0], topK)
	if err != nil {
		if errors.Is(err, vector.ErrNotIndexed) {
			return nil, fmt.Errorf("%w: %s", ErrVideoNotIndexed, videoID)
		}
		return nil, fmt.Errorf("search video index: %w", err)
	}

	out := make([]models.RetrievedChunk, 0, len(matches))
	for _, m := range matches {
		// Lower distance means higher relevance. Unusual distance metrics
		// can push the score outside [0,1]; callers tolerate that.
		out = append(out, models.RetrievedChunk{Chunk: m.Chunk, RelevanceScore: 1 - m.Distance})
	}
	return out, nil
}
