package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// Entry is a single cached value with its expiry. Entries are immutable
// after creation and owned by the cache that created them.
type Entry[T any] struct {
	value     *T
	expiresAt time.Time
}

// Value returns the cached value. The second return is false for a
// negative entry (a cached absent result).
func (e *Entry[T]) Value() (T, bool) {
	if e.value == nil {
		var zero T
		return zero, false
	}
	return *e.value, true
}

// ExpiresAt returns the entry's expiry time.
func (e *Entry[T]) ExpiresAt() time.Time {
	return e.expiresAt
}

// Expired reports whether the entry is past its expiry.
func (e *Entry[T]) Expired() bool {
	return !time.Now().Before(e.expiresAt)
}

// snapshot is the immutable backing structure. Writers build a new
// snapshot and swap it in; readers only ever load a complete one.
type snapshot[T any] struct {
	entries map[string]*Entry[T]
	// order holds keys oldest-inserted first.
	order []string
}

// Cache is a capacity-bounded TTL cache with insertion-order eviction.
type Cache[T any] struct {
	name     string
	ttl      time.Duration
	nullTTL  time.Duration
	capacity int
	logger   observability.Logger

	mu    sync.Mutex
	state atomic.Pointer[snapshot[T]]
}

// New creates a cache. All three parameters are required: a non-positive
// ttl, nullValueTTL or capacity is a configuration error.
func New[T any](
	name string,
	ttl, nullValueTTL time.Duration,
	capacity int,
	logger observability.Logger,
) (*Cache[T], error) {
	if ttl <= 0 {
		return nil, config.NewConfigError("ttl", "cache ttl must be positive")
	}
	if nullValueTTL <= 0 {
		return nil, config.NewConfigError("nullValueTTL", "null value ttl must be positive")
	}
	if capacity <= 0 {
		return nil, config.NewConfigError("capacity", "cache capacity must be positive")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	c := &Cache[T]{
		name:     name,
		ttl:      ttl,
		nullTTL:  nullValueTTL,
		capacity: capacity,
		logger:   logger,
	}
	c.state.Store(&snapshot[T]{entries: make(map[string]*Entry[T])})

	logger.Info("cache initialized",
		observability.String("cache", name),
		observability.Duration("ttl", ttl),
		observability.Duration("nullValueTTL", nullValueTTL),
		observability.Int("capacity", capacity))

	return c, nil
}

// Get returns the live entry for key, if any. An expired entry is removed
// before reporting a miss (lazy expiry).
func (c *Cache[T]) Get(key string) (*Entry[T], bool) {
	s := c.state.Load()
	entry, ok := s.entries[key]
	if !ok {
		GetCacheMetrics().missesTotal.WithLabelValues(c.name).Inc()
		return nil, false
	}

	if entry.Expired() {
		c.removeExpired(key, entry)
		GetCacheMetrics().missesTotal.WithLabelValues(c.name).Inc()
		return nil, false
	}

	GetCacheMetrics().hitsTotal.WithLabelValues(c.name).Inc()
	return entry, true
}

// Put stores value under key unless a live entry already exists, in which
// case the existing entry is returned unchanged and the supplied value is
// discarded. A nil value is cached as a negative result with the null
// value TTL. Exactly one entry is created per key per TTL window, no
// matter how many writers race.
func (c *Cache[T]) Put(key string, value *T) *Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state.Load()
	if existing, ok := s.entries[key]; ok && !existing.Expired() {
		// A live entry wins over the incoming value.
		return existing
	}

	ttl := c.ttl
	if value == nil {
		ttl = c.nullTTL
	}
	entry := &Entry[T]{value: value, expiresAt: time.Now().Add(ttl)}

	next := &snapshot[T]{
		entries: make(map[string]*Entry[T], len(s.entries)+1),
		order:   make([]string, 0, len(s.order)+1),
	}
	for _, k := range s.order {
		if k == key {
			continue
		}
		next.entries[k] = s.entries[k]
		next.order = append(next.order, k)
	}
	next.entries[key] = entry
	next.order = append(next.order, key)

	if len(next.entries) >= c.capacity {
		next = c.prune(next)
	}

	c.state.Store(next)
	GetCacheMetrics().sizeGauge.WithLabelValues(c.name).Set(float64(len(next.entries)))

	c.logger.Debug("cache put",
		observability.String("cache", c.name),
		observability.String("key", key),
		observability.Bool("negative", value == nil),
		observability.Int("size", len(next.entries)))

	return entry
}

// Size returns the current number of entries, expired ones included.
func (c *Cache[T]) Size() int {
	return len(c.state.Load().entries)
}

// prune drops every expired entry, then the single oldest-inserted
// survivor while the cache remains above capacity. Called with the write
// lock held.
func (c *Cache[T]) prune(s *snapshot[T]) *snapshot[T] {
	next := &snapshot[T]{
		entries: make(map[string]*Entry[T], len(s.entries)),
		order:   make([]string, 0, len(s.order)),
	}
	for _, k := range s.order {
		entry := s.entries[k]
		if entry.Expired() {
			GetCacheMetrics().evictionsTotal.WithLabelValues(c.name).Inc()
			continue
		}
		next.entries[k] = entry
		next.order = append(next.order, k)
	}

	for len(next.entries) > c.capacity {
		oldest := next.order[0]
		next.order = next.order[1:]
		delete(next.entries, oldest)
		GetCacheMetrics().evictionsTotal.WithLabelValues(c.name).Inc()
		c.logger.Debug("cache evicted oldest entry",
			observability.String("cache", c.name),
			observability.String("key", oldest))
	}

	return next
}

// removeExpired removes an entry found expired on the read path. The
// snapshot is re-checked under the lock so a concurrent replacement for
// the same key is never discarded.
func (c *Cache[T]) removeExpired(key string, stale *Entry[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state.Load()
	if current, ok := s.entries[key]; !ok || current != stale {
		return
	}

	next := &snapshot[T]{
		entries: make(map[string]*Entry[T], len(s.entries)),
		order:   make([]string, 0, len(s.order)),
	}
	for _, k := range s.order {
		if k == key {
			continue
		}
		next.entries[k] = s.entries[k]
		next.order = append(next.order, k)
	}

	c.state.Store(next)
	GetCacheMetrics().sizeGauge.WithLabelValues(c.name).Set(float64(len(next.entries)))
}
