package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lectureflow/internal/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, models.Video{
		VideoID:  "vid-1",
		Filename: "lecture.mp4",
		Status:   models.StatusUploaded,
	}))

	require.NoError(t, s.UpdateStatus(ctx, "vid-1", Update{Status: models.StatusTranscribing, Progress: 30}))
	require.NoError(t, s.UpdateStatus(ctx, "vid-1", Update{Language: "en", Duration: 1800}))

	v, err := s.Get(ctx, "vid-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusTranscribing, v.Status)
	require.Equal(t, 30.0, v.Progress)
	require.Equal(t, "en", v.Language)
	require.Equal(t, 1800.0, v.Duration)
	require.Equal(t, "lecture.mp4", v.Filename)
}

func TestMemoryStoreUnknownVideo(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateStatus(ctx, "missing", Update{Status: models.StatusFailed})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpsertPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, models.Video{VideoID: "vid-1", Status: models.StatusUploaded}))
	first, err := s.Get(ctx, "vid-1")
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, models.Video{VideoID: "vid-1", Status: models.StatusCompleted}))
	second, err := s.Get(ctx, "vid-1")
	require.NoError(t, err)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, models.StatusCompleted, second.Status)
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, models.Video{VideoID: "vid-1", Status: models.StatusUploaded}))
	require.NoError(t, s.Upsert(ctx, models.Video{VideoID: "vid-2", Status: models.StatusUploaded}))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.False(t, all[0].CreatedAt.Before(all[1].CreatedAt))
}
