package store

import (
	"context"
	"sync"

	"github.com/jorgej/gimlet-skill-sub000/internal/session"
)

// MemoryStore keeps bags in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	bags map[string]session.Bag
}

func NewMemory() *MemoryStore {
	return &MemoryStore{bags: make(map[string]session.Bag)}
}

// GetAttributes returns a copy of the stored bag.
func (s *MemoryStore) GetAttributes(_ context.Context, userID string) (session.Bag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bag, ok := s.bags[userID]
	if !ok {
		return nil, nil
	}
	return bag.Clone(), nil
}

func (s *MemoryStore) PutAttributes(_ context.Context, userID string, bag session.Bag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bags[userID] = bag.Clone()
	return nil
}

func (s *MemoryStore) DeleteAttributes(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bags, userID)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
