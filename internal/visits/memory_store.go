package visits

import (
	"context"
	"sync"
	"time"

	"github.com/cankoe/visit-recorder/internal/models"
)

// MemoryStore keeps visits in insertion order for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	index map[time.Time]int
	items []models.Visit
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[time.Time]int)}
}

func (s *MemoryStore) Insert(_ context.Context, v models.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := v.AccessTime.UTC()
	if i, ok := s.index[key]; ok {
		s.items[i] = v
		return nil
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, v)
	return nil
}

func (s *MemoryStore) ReadAll(_ context.Context) ([]models.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Visit, len(s.items))
	copy(out, s.items)
	return out, nil
}
