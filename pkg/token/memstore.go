package token

import (
	"context"
	"sync"
)

// MemoryStore is the reference in-process Store. Suitable for tests and
// single-node deployments; records live until process exit.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Save upserts the record keyed by its signed value.
func (s *MemoryStore) Save(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.Value] = r
	return nil
}

// FindByValue returns the record for the signed value, or ErrNotFound.
func (s *MemoryStore) FindByValue(_ context.Context, value string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[value]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
