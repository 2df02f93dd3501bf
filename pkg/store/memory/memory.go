// Package memory provides a process-local key-value store backed by
// patrickmn/go-cache. Values never expire; the store lives as long as the
// process, which makes it suitable for tests and for running without
// persistence.
package memory

import (
	gocache "github.com/patrickmn/go-cache"
)

// Store is an in-memory key-value store.
type Store struct {
	cache *gocache.Cache
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{cache: gocache.New(gocache.NoExpiration, 0)}
}

// NewWith creates an in-memory store seeded with values.
func NewWith(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.Set(k, v)
	}
	return s
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Set stores value under key.
func (s *Store) Set(key, value string) {
	s.cache.Set(key, value, gocache.NoExpiration)
}

// Delete removes key from the store.
func (s *Store) Delete(key string) {
	s.cache.Delete(key)
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
