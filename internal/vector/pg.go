package vector

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore backs video indexes with a pgvector table. Replace runs
// delete-then-insert inside one transaction, so the swap commits
// atomically.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Replace(ctx context.Context, videoID string, records []Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace index tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM lecture_chunks WHERE video_id=$1`, videoID); err != nil {
		return fmt.Errorf("clear prior index: %w", err)
	}
	for _, rec := range records {
		c := rec.Chunk
		if _, err := tx.Exec(ctx, `
INSERT INTO lecture_chunks (video_id, sequence_id, text, start_time, end_time, duration, language, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector)`,
			videoID, c.SequenceID, c.Text, c.StartTime, c.EndTime, c.Duration, c.Language, ToLiteral(rec.Embedding),
		); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.SequenceID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace index tx: %w", err)
	}
	return nil
}

func (s *PGStore) Search(ctx context.Context, videoID string, queryVec []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}
	ok, err := s.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotIndexed, videoID)
	}

	rows, err := s.pool.Query(ctx, `
SELECT sequence_id, text, start_time, end_time, duration, language,
       embedding <=> $2::vector AS distance
FROM lecture_chunks
WHERE video_id = $1
ORDER BY embedding <=> $2::vector
LIMIT $3`, videoID, ToLiteral(queryVec), topK)
	if err != nil {
		return nil, fmt.Errorf("query video index: %w", err)
	}
	defer rows.Close()

	matches := make([]Match, 0, topK)
	for rows.Next() {
		var m Match
		m.Chunk.VideoID = videoID
		if err := rows.Scan(&m.Chunk.SequenceID, &m.Chunk.Text, &m.Chunk.StartTime, &m.Chunk.EndTime, &m.Chunk.Duration, &m.Chunk.Language, &m.Distance); err != nil {
			return nil, fmt.Errorf("scan index match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index matches: %w", err)
	}
	return matches, nil
}

func (s *PGStore) Exists(ctx context.Context, videoID string) (bool, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM lecture_chunks WHERE video_id=$1`, videoID).Scan(&n); err != nil {
		return false, fmt.Errorf("check video index: %w", err)
	}
	return n > 0, nil
}

var _ Store = (*PGStore)(nil)
