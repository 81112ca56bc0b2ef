package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lectureflow/internal/models"
	"lectureflow/internal/status"
)

// VideoRepo persists per-video processing state in the videos table.
type VideoRepo struct {
	db *DB
}

func NewVideoRepo(db *DB) *VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) Upsert(ctx context.Context, v models.Video) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO videos (video_id, filename, status, progress, message, language, duration)
VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''), NULLIF($7, 0))
ON CONFLICT (video_id)
DO UPDATE SET
  filename = EXCLUDED.filename,
  status = EXCLUDED.status,
  progress = EXCLUDED.progress,
  message = COALESCE(EXCLUDED.message, videos.message),
  language = COALESCE(EXCLUDED.language, videos.language),
  duration = COALESCE(EXCLUDED.duration, videos.duration),
  updated_at = NOW()`,
		v.VideoID, v.Filename, v.Status, v.Progress, v.Message, v.Language, v.Duration,
	)
	if err != nil {
		return fmt.Errorf("upsert video: %w", err)
	}
	return nil
}

func (r *VideoRepo) UpdateStatus(ctx context.Context, videoID string, upd status.Update) error {
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE videos SET
  status = CASE WHEN $2 <> '' THEN $2 ELSE status END,
  progress = CASE WHEN $2 <> '' THEN $3 ELSE progress END,
  message = COALESCE(NULLIF($4,''), message),
  language = COALESCE(NULLIF($5,''), language),
  duration = COALESCE(NULLIF($6, 0), duration),
  updated_at = NOW()
WHERE video_id=$1`,
		videoID, upd.Status, upd.Progress, upd.Message, upd.Language, upd.Duration,
	)
	if err != nil {
		return fmt.Errorf("update video status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", status.ErrNotFound, videoID)
	}
	return nil
}

func (r *VideoRepo) Get(ctx context.Context, videoID string) (models.Video, error) {
	var v models.Video
	err := r.db.Pool.QueryRow(ctx, `
SELECT video_id, filename, status, progress, COALESCE(message,''), COALESCE(language,''),
       COALESCE(duration, 0), created_at, updated_at
FROM videos
WHERE video_id=$1`, videoID).
		Scan(&v.VideoID, &v.Filename, &v.Status, &v.Progress, &v.Message, &v.Language, &v.Duration, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, fmt.Errorf("%w: %s", status.ErrNotFound, videoID)
		}
		return models.Video{}, fmt.Errorf("get video: %w", err)
	}
	return v, nil
}

func (r *VideoRepo) List(ctx context.Context) ([]models.Video, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT video_id, filename, status, progress, COALESCE(message,''), COALESCE(language,''),
       COALESCE(duration, 0), created_at, updated_at
FROM videos
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	out := make([]models.Video, 0)
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.VideoID, &v.Filename, &v.Status, &v.Progress, &v.Message, &v.Language, &v.Duration, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return out, nil
}

var _ status.Store = (*VideoRepo)(nil)
