// Package auth – verification cache.
//
// This file implements the in-memory verification cache: a mutex-guarded map
// keyed by raw token string with opportunistic eviction of expired entries
// during lookups, so memory stays bounded without a background sweeper.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// Cache stores token verification results for a bounded duration. A cache hit
// skips decoding and the credential-store lookup; acceptable staleness equals
// the entry TTL. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached user for raw, or ok=false on miss/expiry.
	Get(ctx context.Context, raw string) (*domain.User, bool)
	// Set stores user under raw for at most ttl.
	Set(ctx context.Context, raw string, user *domain.User, ttl time.Duration)
}

// cacheEntry holds a verified user and its expiry instant.
type cacheEntry struct {
	user      *domain.User
	expiresAt time.Time
}

// MemoryCache is a process-local Cache. Entries are created on demand and
// stored in an internal map guarded by a mutex; expired entries are evicted
// opportunistically after a threshold of lookups to keep memory bounded.
//
// This cache is process-local. For horizontally scaled deployments, prefer
// the Redis-backed Cache so all replicas share one staleness window.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	lookupN uint64
}

// NewMemoryCache constructs an empty MemoryCache ready for use.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

// Get implements Cache. Expired entries are treated as misses and deleted.
func (c *MemoryCache) Get(_ context.Context, raw string) (*domain.User, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Opportunistic cleanup after a threshold of lookups, then reset the
	// counter. Runs before the requested key is touched so an expired entry
	// is evicted even when it is the one being fetched.
	c.lookupN++
	if c.lookupN >= 5000 {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.lookupN = 0
	}

	e, ok := c.entries[raw]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, raw)
		return nil, false
	}
	return e.user, true
}

// Set implements Cache. A non-positive ttl is a no-op.
func (c *MemoryCache) Set(_ context.Context, raw string, user *domain.User, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[raw] = cacheEntry{user: user, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}
