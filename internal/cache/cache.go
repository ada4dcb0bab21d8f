// Package cache holds the session-lifetime valuation cache. Entries never
// expire and are never evicted: once a symbol has been fetched its data is
// served from here for the rest of the session.
package cache

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a mapping from uppercase ticker symbol to a cached value. It is
// constructed by the session owner and handed to the fetch client, never
// shared across sessions.
type Store[T any] struct {
	entries *gocache.Cache
}

// New creates an empty store. No expiration and no cleanup janitor; the
// store lives exactly as long as the session that owns it.
func New[T any]() *Store[T] {
	return &Store[T]{
		entries: gocache.New(gocache.NoExpiration, 0),
	}
}

// Key normalizes a symbol for lookup and insertion, so "aapl" and "AAPL"
// resolve to the same entry.
func Key(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Get returns the cached value for symbol. A miss returns the zero value
// and false; misses are not an error condition.
func (s *Store[T]) Get(symbol string) (T, bool) {
	v, found := s.entries.Get(Key(symbol))
	if !found {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Put inserts or replaces the entry for symbol.
func (s *Store[T]) Put(symbol string, value T) {
	s.entries.Set(Key(symbol), value, gocache.NoExpiration)
}

// Len returns the number of cached symbols.
func (s *Store[T]) Len() int {
	return s.entries.ItemCount()
}
