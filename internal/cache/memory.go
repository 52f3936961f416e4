package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

// MemoryBackend keeps entries in process; nothing survives a restart. It is
// the backend for cache.backend: memory, where Load in a new process is
// always empty and entries only live for the session.
type MemoryBackend struct {
	cache *gocache.Cache
}

// NewMemoryBackend creates a memory backend whose items expire after ttl
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	cleanup := 10 * time.Minute
	if ttl > 0 && ttl < cleanup {
		cleanup = ttl
	}
	return &MemoryBackend{
		cache: gocache.New(ttl, cleanup),
	}
}

// Load returns the unexpired items
func (b *MemoryBackend) Load(_ context.Context) (map[string]model.CacheEntry, error) {
	items := b.cache.Items()
	entries := make(map[string]model.CacheEntry, len(items))
	for key, item := range items {
		if entry, ok := item.Object.(model.CacheEntry); ok {
			entries[key] = entry
		}
	}
	return entries, nil
}

// Save stores the entry with the default expiration
func (b *MemoryBackend) Save(_ context.Context, key string, entry model.CacheEntry) error {
	b.cache.Set(key, entry, gocache.DefaultExpiration)
	return nil
}

// Delete removes the entry
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.cache.Delete(key)
	return nil
}

// Clear removes all entries
func (b *MemoryBackend) Clear(_ context.Context) error {
	b.cache.Flush()
	return nil
}
