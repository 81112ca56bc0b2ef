package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is a process-local Store with brute-force cosine search,
// used by tests and database-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	indexes map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{indexes: map[string][]Record{}}
}

func (m *MemoryStore) Replace(ctx context.Context, videoID string, records []Record) error {
	_ = ctx
	copied := make([]Record, len(records))
	copy(copied, records)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[videoID] = copied
	return nil
}

func (m *MemoryStore) Search(ctx context.Context, videoID string, queryVec []float32, topK int) ([]Match, error) {
	_ = ctx
	if topK <= 0 {
		topK = 5
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.indexes[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotIndexed, videoID)
	}
	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		matches = append(matches, Match{Chunk: rec.Chunk, Distance: cosineDistance(queryVec, rec.Embedding)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *MemoryStore) Exists(ctx context.Context, videoID string) (bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.indexes[videoID]
	return ok, nil
}

func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	var na, nb float64
	for _, x := range a {
		na += float64(x) * float64(x)
	}
	for _, x := range b {
		nb += float64(x) * float64(x)
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

var _ Store = (*MemoryStore)(nil)
