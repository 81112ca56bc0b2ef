package vector

import (
	"context"
	"errors"
	"testing"

	"lectureflow/internal/models"

	"github.com/stretchr/testify/require"
)

func rec(videoID string, seq int, text string, emb []float32) Record {
	return Record{
		Chunk:     models.Chunk{VideoID: videoID, SequenceID: seq, Text: text},
		Embedding: emb,
	}
}

func TestMemoryStoreSearchUnknownVideo(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Search(context.Background(), "nope", []float32{1, 0}, 5)
	require.ErrorIs(t, err, ErrNotIndexed)
}

func TestMemoryStoreEmptyIndexIsNotAnError(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Replace(context.Background(), "v1", nil))
	matches, err := s.Search(context.Background(), "v1", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestMemoryStoreOrdersByDistanceAndCaps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	records := []Record{
		rec("v1", 0, "orthogonal", []float32{0, 1}),
		rec("v1", 1, "exact", []float32{1, 0}),
		rec("v1", 2, "close", []float32{0.9, 0.1}),
		rec("v1", 3, "opposite", []float32{-1, 0}),
	}
	require.NoError(t, s.Replace(ctx, "v1", records))

	matches, err := s.Search(ctx, "v1", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	require.Equal(t, "exact", matches[0].Chunk.Text)
	require.Equal(t, "close", matches[1].Chunk.Text)
	require.InDelta(t, 0.0, matches[0].Distance, 1e-9)
	for i := 1; i < len(matches); i++ {
		require.GreaterOrEqual(t, matches[i].Distance, matches[i-1].Distance)
	}
}

func TestMemoryStoreReplaceIsAtomicSwap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Replace(ctx, "v1", []Record{rec("v1", 0, "old chunk", []float32{1, 0})}))
	require.NoError(t, s.Replace(ctx, "v1", []Record{rec("v1", 0, "new chunk", []float32{1, 0})}))

	matches, err := s.Search(ctx, "v1", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "new chunk", matches[0].Chunk.Text)
}

func TestMemoryStoreScopedToVideo(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Replace(ctx, "v1", []Record{rec("v1", 0, "lecture one", []float32{1, 0})}))
	require.NoError(t, s.Replace(ctx, "v2", []Record{rec("v2", 0, "lecture two", []float32{1, 0})}))

	matches, err := s.Search(ctx, "v2", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "lecture two", matches[0].Chunk.Text)

	ok, err := s.Exists(ctx, "v1")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.Search(ctx, "v3", []float32{1, 0}, 10)
	require.True(t, errors.Is(err, ErrNotIndexed))
}
