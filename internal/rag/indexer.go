package rag

import (
	"context"
	"fmt"

	"lectureflow/internal/models"
	"lectureflow/internal/providers"
	"lectureflow/internal/vector"
)

// Indexer turns a transcript into embedded retrieval chunks and publishes
// them as the video's index, replacing any prior index for that video.
type Indexer struct {
	store    vector.Store
	embedder providers.EmbeddingProvider
	splitter *Splitter
	embedDim int
}

func NewIndexer(store vector.Store, embedder providers.EmbeddingProvider, chunkSize, overlap, embedDim int) *Indexer {
	return &Indexer{
		store:    store,
		embedder: embedder,
		splitter: NewSplitter(chunkSize, overlap),
		embedDim: embedDim,
	}
}

// ChunkTranscript re-splits the transcript's concatenated text and aligns
// each resulting chunk back onto the original segment timeline. Sequence
// ids are dense and follow split order.
func (ix *Indexer) ChunkTranscript(transcript models.Transcript, videoID string) []models.Chunk {
	fullText := JoinSegmentTexts(transcript)
	pieces := ix.splitter.Split(fullText)
	chunks := make([]models.Chunk, 0, len(pieces))
	for i, text := range pieces {
		start, end := AlignChunk(text, transcript)
		chunks = append(chunks, models.Chunk{
			VideoID:    videoID,
			Text:       text,
			SequenceID: i,
			StartTime:  start,
			EndTime:    end,
			Duration:   ChunkDuration(start, end),
			Language:   transcript.Language,
		})
	}
	return chunks
}

// Index embeds the transcript's chunks and atomically replaces the video's
// index. Errors are fatal to the processing run for this video; the prior
// index stays live when the rebuild fails.
func (ix *Indexer) Index(ctx context.Context, transcript models.Transcript, videoID string) (int, error) {
	if len(transcript.Segments) == 0 {
		return 0, ErrEmptyTranscript
	}
	chunks := ix.ChunkTranscript(transcript, videoID)
	inputs := make([]string, 0, len(chunks))
	for _, c := range chunks {
		inputs = append(inputs, c.Text)
	}
	vectors, _, err := ix.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "index_chunks",
		Inputs:    inputs,
		Dimension: ix.embedDim,
	})
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	records := make([]vector.Record, 0, len(chunks))
	for i, c := range chunks {
		records = append(records, vector.Record{Chunk: c, Embedding: vectors[i]})
	}
	if err := ix.store.Replace(ctx, videoID, records); err != nil {
		return 0, fmt.Errorf("replace video index: %w", err)
	}
	return len(chunks), nil
}
