package cache

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// tokenCacheName labels token cache metrics.
const tokenCacheName = "token"

// TokenCache stores backend session tokens keyed by the
// (clientID, tenant, username) triple. It is constructed once in the
// composition root and handed by reference to whatever serves requests;
// re-initialization swaps the entire underlying cache, deliberately
// discarding every cached token (the cold-cache reset on redeploy).
type TokenCache struct {
	cache  atomic.Pointer[Cache[string]]
	logger observability.Logger
}

// NewTokenCache creates an initialized token cache.
func NewTokenCache(
	ttl, nullValueTTL time.Duration,
	capacity int,
	logger observability.Logger,
) (*TokenCache, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}
	t := &TokenCache{logger: logger}
	if err := t.Reinitialize(ttl, nullValueTTL, capacity); err != nil {
		return nil, err
	}
	return t, nil
}

// Reinitialize replaces the underlying cache, discarding all prior
// entries. Data loss is intentional and expected here, so an existing
// cache is only worth a warning.
func (t *TokenCache) Reinitialize(ttl, nullValueTTL time.Duration, capacity int) error {
	c, err := New[string](tokenCacheName, ttl, nullValueTTL, capacity, t.logger)
	if err != nil {
		return err
	}
	if t.cache.Swap(c) != nil {
		t.logger.Warn("token cache re-initialized, all cached tokens discarded",
			observability.Duration("ttl", ttl),
			observability.Int("capacity", capacity))
	}
	return nil
}

// Get returns the cached session token for the triple. A negative entry
// reports a miss to the caller.
func (t *TokenCache) Get(clientID, tenant, username string) (string, bool) {
	entry, ok := t.instance().Get(tokenKey(clientID, tenant, username))
	if !ok {
		return "", false
	}
	return entry.Value()
}

// Put stores a session token for the triple. If a live entry already
// exists it wins and the supplied token is discarded.
func (t *TokenCache) Put(clientID, tenant, username, token string) string {
	entry := t.instance().Put(tokenKey(clientID, tenant, username), &token)
	cached, _ := entry.Value()
	return cached
}

// Size returns the number of cached entries.
func (t *TokenCache) Size() int {
	return t.instance().Size()
}

// instance returns the current underlying cache. A zero-value TokenCache
// was never initialized; that is a wiring bug, not a runtime condition,
// so fail loudly.
func (t *TokenCache) instance() *Cache[string] {
	c := t.cache.Load()
	if c == nil {
		panic("cache: token cache used before initialization")
	}
	return c
}

// tokenKey builds the composite cache key. The colon-joined layout is an
// internal format, not part of any external contract.
func tokenKey(clientID, tenant, username string) string {
	return strings.Join([]string{clientID, tenant, username}, ":")
}
