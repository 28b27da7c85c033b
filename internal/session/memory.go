package session

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often Create scans for expired sessions.
const sweepInterval = time.Minute

// MemoryStore is a process-local Store for single-instance deployments and tests.
type MemoryStore struct {
	mu        sync.Mutex
	expiries  map[string]time.Time
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expiries: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemoryStore) Touch(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	exp, ok := s.expiries[id]
	if !ok || !now.Before(exp) {
		delete(s.expiries, id)
		return false, nil
	}
	s.expiries[id] = now.Add(ttl)
	return true, nil
}

// Create registers id and, at most once per sweepInterval, drops every expired
// entry so sessions that never come back do not accumulate.
func (s *MemoryStore) Create(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}
	s.expiries[id] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for id, exp := range s.expiries {
		if !now.Before(exp) {
			delete(s.expiries, id)
		}
	}
	s.lastSweep = now
}
