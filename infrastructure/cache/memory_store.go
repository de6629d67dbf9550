// Package cache provides ports.CacheStore implementations.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ahrav/go-quorum/internal/ports"
)

var _ ports.CacheStore = (*MemoryStore)(nil)

// MemoryStore is an in-process CacheStore with per-entry expiration.
// Expired entries are purged every cleanup interval.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a MemoryStore. A defaultTTL of zero or less keeps
// entries until they are deleted; a cleanupInterval of zero or less disables
// the background purge.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryStore{cache: gocache.New(defaultTTL, cleanupInterval)}
}

// Get implements ports.CacheStore.
func (s *MemoryStore) Get(ctx context.Context, key string) (any, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, ports.NewCacheError(key, "get", err)
	}
	v, found := s.cache.Get(key)
	return v, found, nil
}

// Set implements ports.CacheStore. A zero expiration uses the store's
// default TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return ports.NewCacheError(key, "set", err)
	}
	if expiration <= 0 {
		expiration = gocache.DefaultExpiration
	}
	s.cache.Set(key, value, expiration)
	return nil
}

// Delete implements ports.CacheStore.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return ports.NewCacheError(key, "delete", err)
	}
	s.cache.Delete(key)
	return nil
}

// Clear implements ports.CacheStore.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ports.NewCacheError("", "clear", err)
	}
	s.cache.Flush()
	return nil
}

// Len returns the number of entries, including expired ones not yet purged.
func (s *MemoryStore) Len() int { return s.cache.ItemCount() }
