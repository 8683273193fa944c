package storage

import (
	"sync"
)

// SyncTable is the synchronized backend flavor. Each table owns its own
// lock; tables never call into each other.
type SyncTable[V View[V]] struct {
	mu    sync.RWMutex
	table *Table[V]
}

// NewSyncTable creates an empty synchronized table.
func NewSyncTable[V View[V]]() *SyncTable[V] {
	return &SyncTable[V]{table: NewTable[V]()}
}

// FindOrMakeID returns the id of v, allocating one if v is new.
func (s *SyncTable[V]) FindOrMakeID(v V) uint64 {
	id, _ := s.Intern(v)
	return id
}

// Intern returns the id of v and whether this call inserted it.
func (s *SyncTable[V]) Intern(v V) (uint64, bool) {
	h := v.Hash()

	// Fast path: existing views only need the read lock
	s.mu.RLock()
	id, ok := s.table.lookup(h, v)
	s.mu.RUnlock()
	if ok {
		return id, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another writer may have inserted v between the two locks
	if id, ok := s.table.lookup(h, v); ok {
		return id, false
	}
	id = s.table.free.Allocate()
	s.table.store(id, h, v)
	return id, true
}

// FindID returns the id of v without inserting it.
func (s *SyncTable[V]) FindID(v V) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.FindID(v)
}

// FindView returns the view stored under id.
func (s *SyncTable[V]) FindView(id uint64) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.FindView(id)
}

// Erase removes the view stored under id and recycles the id.
func (s *SyncTable[V]) Erase(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Erase(id)
}

// Reserve stores v under a caller-chosen id.
func (s *SyncTable[V]) Reserve(id uint64, v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Reserve(id, v)
}

// Len returns the number of live views.
func (s *SyncTable[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Len()
}
