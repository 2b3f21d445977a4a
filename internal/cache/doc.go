// Package cache provides the bounded TTL cache the edge gateway keeps
// session tokens in.
//
// The cache is deliberately not an LRU: entries keep their insertion
// order, expiry is per entry, and eviction on writes drops expired
// entries first and the oldest-inserted survivor second. Reads are
// lock-free against an immutable snapshot that writers replace
// atomically, so a reader never observes a partially-evicted structure.
//
// Negative results (nil values) are cached with a separate, normally
// much shorter TTL so that repeated failed lookups do not hammer the
// backend.
package cache
