package status

import (
	"context"
	"errors"

	"lectureflow/internal/models"
)

var ErrNotFound = errors.New("video not found")

// Update carries a partial status change. Zero-valued fields leave the
// stored value untouched, except Progress which always applies alongside
// a non-empty Status.
type Update struct {
	Status   string
	Progress float64
	Message  string
	Language string
	Duration float64
}

// Store tracks per-video processing state. The worker writes through it
// at every pipeline step; the API reads it when the workflow cannot be
// queried directly.
type Store interface {
	Upsert(ctx context.Context, v models.Video) error
	UpdateStatus(ctx context.Context, videoID string, upd Update) error
	Get(ctx context.Context, videoID string) (models.Video, error)
	List(ctx context.Context) ([]models.Video, error)
}
