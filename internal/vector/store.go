package vector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lectureflow/internal/models"
)

// ErrNotIndexed means no index has ever been published for the video id.
// An index that exists but matches nothing yields an empty result instead.
var ErrNotIndexed = errors.New("no index for video")

// Record is one embedded chunk as stored in a video's index.
type Record struct {
	Chunk     models.Chunk
	Embedding []float32
}

// Match is a nearest-neighbor hit. Distance is cosine distance; lower is
// closer.
type Match struct {
	Chunk    models.Chunk
	Distance float64
}

// Store keeps at most one live index per video id. Replace publishes a
// fully built index in one step, so a failed rebuild never leaves the
// prior index half-deleted.
type Store interface {
	Replace(ctx context.Context, videoID string, records []Record) error
	Search(ctx context.Context, videoID string, queryVec []float32, topK int) ([]Match, error)
	Exists(ctx context.Context, videoID string) (bool, error)
}

func ToLiteral(v []float32) string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, fmt.Sprintf("%f", x))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
