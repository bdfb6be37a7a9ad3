// pkg/memcache/store.go
package memcache

import (
	"context"
	"sort"
	"sync"
	"time"
)

const defaultMaxEntries = 10000

// Store is a small string key/value cache with per-entry expiry.
type Store interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get returns ok=false for missing or expired keys; err is reserved for backend failures.
	Get(ctx context.Context, key string) (string, bool, error)
}

type entry struct {
	value     string
	expiresAt time.Time
	seq       uint64
}

// InMemoryStore holds at most maxEntries keys. Once full it drops expired keys
// first, then the oldest writes.
type InMemoryStore struct {
	mu         sync.RWMutex
	data       map[string]entry
	seq        uint64
	maxEntries int
	now        func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data:       make(map[string]entry),
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

func (s *InMemoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.data[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
		seq:       s.seq,
	}
	if len(s.data) > s.maxEntries {
		s.evictExpiredLocked()
	}
	if len(s.data) > s.maxEntries {
		s.evictOldestLocked(len(s.data) - s.maxEntries*9/10)
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key) // cleanup expired
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *InMemoryStore) evictExpiredLocked() {
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}

// evictOldestLocked drops the n least recently written keys.
func (s *InMemoryStore) evictOldestLocked(n int) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return s.data[keys[i]].seq < s.data[keys[j]].seq })
	for _, k := range keys[:n] {
		delete(s.data, k)
	}
}
