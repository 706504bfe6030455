package ledger

import (
	"context"
	"sync"
)

// implements Store using in-memory storage
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// creates a new in-memory ledger store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Sequence != uint64(len(s.entries)) {
		return ErrSequenceConflict
	}

	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) Last(_ context.Context) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, nil
	}

	return s.entries[len(s.entries)-1], nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Entry{}
	for i := len(s.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}

	return out, nil
}

func (s *MemoryStore) Range(_ context.Context, from uint64, limit int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Entry{}
	for i := from; i < uint64(len(s.entries)) && len(out) < limit; i++ {
		out = append(out, s.entries[i])
	}

	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.entries)), nil
}
