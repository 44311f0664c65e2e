package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// NoExpiration keeps an item until it is deleted or re-set with an expiration
	NoExpiration = cache.NoExpiration
	// DefaultExpiration uses the store's default expiration
	DefaultExpiration = cache.DefaultExpiration
)

// Store is a typed in-memory store on top of go-cache
type Store[V any] struct {
	cache *cache.Cache
}

// NewStore creates a store from configuration
func NewStore[V any](cfg Config) *Store[V] {
	return NewGoStore[V](cfg.GoCache.DefaultExpiration, cfg.GoCache.CleanupInterval)
}

// NewGoStore creates a store
// defaultExpiration: default expiration time for items
// cleanupInterval: interval for cleaning up expired items
func NewGoStore[V any](defaultExpiration, cleanupInterval time.Duration) *Store[V] {
	return &Store[V]{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the item stored under key
func (s *Store[V]) Get(key string) (V, bool) {
	if value, found := s.cache.Get(key); found {
		if typed, ok := value.(V); ok {
			return typed, true
		}
	}
	var zero V
	return zero, false
}

// GetOrCreate returns the item stored under key, storing create() first when it is missing.
// Concurrent callers for the same key get the same item; created reports whether this call stored it.
func (s *Store[V]) GetOrCreate(key string, create func() V) (value V, created bool) {
	for {
		if existing, found := s.Get(key); found {
			return existing, false
		}

		candidate := create()
		// Add fails when another caller stored the key first
		if err := s.cache.Add(key, candidate, DefaultExpiration); err == nil {
			return candidate, true
		}
	}
}

// Set stores value under key with the given expiration.
// An expiration of 0 uses the default, NoExpiration keeps the item forever.
func (s *Store[V]) Set(key string, value V, expiration time.Duration) {
	s.cache.Set(key, value, expiration)
}

// Delete removes items by keys
func (s *Store[V]) Delete(keys ...string) {
	for _, key := range keys {
		s.cache.Delete(key)
	}
}

// Items returns a copy of all unexpired items
func (s *Store[V]) Items() map[string]V {
	items := s.cache.Items()
	result := make(map[string]V, len(items))
	for key, item := range items {
		if typed, ok := item.Object.(V); ok {
			result[key] = typed
		}
	}
	return result
}

// OnEvicted registers a callback for items removed by expiration or Delete
func (s *Store[V]) OnEvicted(fn func(key string, value V)) {
	s.cache.OnEvicted(func(key string, value interface{}) {
		if typed, ok := value.(V); ok {
			fn(key, typed)
		}
	})
}

// Clear removes all items
func (s *Store[V]) Clear() {
	s.cache.Flush()
}

// ItemCount returns the number of items, including expired ones not yet cleaned up
func (s *Store[V]) ItemCount() int {
	return s.cache.ItemCount()
}

// DeleteExpired manually triggers deletion of expired items
func (s *Store[V]) DeleteExpired() {
	s.cache.DeleteExpired()
}
