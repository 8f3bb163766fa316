package cache

import (
	"context"
	"sync"
	"time"

	"github.com/okian/spotfinder/pkg/metrics"
)

// Default TTL store configuration constants.
const (
	defaultMaxEntries = 128
	defaultTTL        = 30 * time.Minute
)

// entry is one stored value with its expiry deadline.
type entry struct {
	value     any
	expiresAt time.Time
}

// TTLStore implements Store in memory with lazy expiry and a bounded
// entry count. Values are stored whole under a write lock, so readers
// see either the old value or the fully populated new one.
type TTLStore struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	order      []string // insertion order, oldest first, for bound eviction
	maxEntries int
	defaultTTL time.Duration
	name       string
	now        func() time.Time
}

// Option applies a configuration option to the TTLStore.
type Option func(*TTLStore)

// WithMaxEntries caps the number of live entries. When the bound is
// hit the oldest entry is evicted.
func WithMaxEntries(n int) Option {
	return func(s *TTLStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithDefaultTTL sets the ttl applied when Set receives a zero ttl.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *TTLStore) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithName labels the store in metrics.
func WithName(name string) Option {
	return func(s *TTLStore) {
		if name != "" {
			s.name = name
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TTLStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTTLStore creates a bounded in-memory TTL store.
func NewTTLStore(opts ...Option) *TTLStore {
	s := &TTLStore{
		entries:    make(map[string]*entry),
		maxEntries: defaultMaxEntries,
		defaultTTL: defaultTTL,
		name:       "results",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the live value for key. Expired entries are dropped on
// the way out rather than by a background sweeper.
func (s *TTLStore) Get(ctx context.Context, key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		metrics.RecordCacheMiss(s.name)
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another writer may have
		// replaced the entry meanwhile.
		if cur, ok := s.entries[key]; ok && s.now().After(cur.expiresAt) {
			s.delete(key)
		}
		s.mu.Unlock()
		metrics.RecordCacheMiss(s.name)
		return nil, false
	}

	metrics.RecordCacheHit(s.name)
	return e.value, true
}

// Set stores value under key. A zero ttl falls back to the default.
func (s *TTLStore) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		if len(s.entries) >= s.maxEntries {
			s.evictOldest()
		}
		s.order = append(s.order, key)
	}
	s.entries[key] = &entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	metrics.UpdateCacheEntries(s.name, len(s.entries))
}

// Len reports the current entry count.
func (s *TTLStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// delete removes key from the map and the order slice.
// Must be called with s.mu held for writing.
func (s *TTLStore) delete(key string) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateCacheEntries(s.name, len(s.entries))
}

// evictOldest drops the oldest inserted entry to honor the bound.
// Must be called with s.mu held for writing.
func (s *TTLStore) evictOldest() {
	if len(s.order) == 0 {
		return
	}
	s.delete(s.order[0])
}
