package status

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lectureflow/internal/models"
)

// MemoryStore keeps video state in process memory. It backs tests and
// single-node runs without Postgres; state does not survive restarts.
type MemoryStore struct {
	mu     sync.RWMutex
	videos map[string]models.Video
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{videos: make(map[string]models.Video)}
}

func (s *MemoryStore) Upsert(ctx context.Context, v models.Video) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if prev, ok := s.videos[v.VideoID]; ok {
		v.CreatedAt = prev.CreatedAt
	} else if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	s.videos[v.VideoID] = v
	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, videoID string, upd Update) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[videoID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, videoID)
	}
	if upd.Status != "" {
		v.Status = upd.Status
		v.Progress = upd.Progress
	}
	if upd.Message != "" {
		v.Message = upd.Message
	}
	if upd.Language != "" {
		v.Language = upd.Language
	}
	if upd.Duration > 0 {
		v.Duration = upd.Duration
	}
	v.UpdatedAt = time.Now().UTC()
	s.videos[videoID] = v
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, videoID string) (models.Video, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[videoID]
	if !ok {
		return models.Video{}, fmt.Errorf("%w: %s", ErrNotFound, videoID)
	}
	return v, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Video, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Video, 0, len(s.videos))
	for _, v := range s.videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
