package storage

import (
	"context"
	"fmt"
)

// EnsureSchema applies the schema on startup so a fresh database works
// without a separate migration step. Statements are idempotent.
func EnsureSchema(ctx context.Context, db *DB, embedDim int) error {
	if embedDim <= 0 {
		embedDim = 1536
	}
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS videos (
  video_id TEXT PRIMARY KEY,
  filename TEXT NOT NULL,
  status TEXT NOT NULL,
  progress DOUBLE PRECISION NOT NULL DEFAULT 0,
  message TEXT,
  language TEXT,
  duration DOUBLE PRECISION,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS lecture_chunks (
  id BIGSERIAL PRIMARY KEY,
  video_id TEXT NOT NULL REFERENCES videos(video_id) ON DELETE CASCADE,
  sequence_id INT NOT NULL,
  text TEXT NOT NULL,
  start_time DOUBLE PRECISION NOT NULL,
  end_time DOUBLE PRECISION NOT NULL,
  duration DOUBLE PRECISION NOT NULL,
  language TEXT,
  embedding vector(%d),
  UNIQUE (video_id, sequence_id)
);

CREATE INDEX IF NOT EXISTS idx_lecture_chunks_video ON lecture_chunks(video_id);
CREATE INDEX IF NOT EXISTS idx_videos_created ON videos(created_at DESC);
`, embedDim)
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
