package slot

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests and dry runs. It honors
// the same atomicity contract as FileStore for concurrent goroutines.
type MemoryStore struct {
	mu      sync.Mutex
	locked  map[int]bool
	records map[int]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locked:  make(map[int]bool),
		records: make(map[int]Record),
	}
}

// TryLock implements Store.
func (s *MemoryStore) TryLock(id int) (Lock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked[id] {
		return nil, fmt.Errorf("slot %d: %w", id, ErrAlreadyLocked)
	}
	s.locked[id] = true
	return &memLock{id: id, store: s}, nil
}

// Read implements Store.
func (s *MemoryStore) Read(id int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{ID: id}, nil
	}
	return rec, nil
}

// Write implements Store.
func (s *MemoryStore) Write(id int, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = id
	s.records[id] = rec
	return nil
}

type memLock struct {
	id    int
	store *MemoryStore
}

func (l *memLock) SlotID() int {
	return l.id
}

func (l *memLock) Release() error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.locked[l.id] = false
	return nil
}
