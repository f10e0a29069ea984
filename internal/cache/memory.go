package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store bounded by entry count.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore creates a MemoryStore. maxEntries <= 0 means unbounded; a nil
// clock uses time.Now.
func NewMemoryStore(maxEntries int, clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		now:        clock,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.data, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		s.evictLocked()
	}
	s.entries[key] = entry{data: value, expiresAt: s.now().Add(ttl)}
}

// Len returns the number of entries, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictLocked makes room for one entry: expired entries go first, then the
// entry closest to expiry.
func (s *MemoryStore) evictLocked() {
	if s.maxEntries <= 0 || len(s.entries) < s.maxEntries {
		return
	}
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	for len(s.entries) >= s.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		first := true
		for k, e := range s.entries {
			if first || e.expiresAt.Before(oldestAt) {
				oldestKey, oldestAt, first = k, e.expiresAt, false
			}
		}
		delete(s.entries, oldestKey)
	}
}
