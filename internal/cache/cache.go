// Package cache wraps provider and resolver calls with a TTL keyed cache so
// repeated requests with identical parameters do not re-hit rate-limited
// external services within the TTL window.
package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// result is the tagged outcome of a wrapped call. Errors are cached on
// purpose: a provider that is failing or rate-limiting should not be
// hammered again until the entry expires.
type result[T any] struct {
	value T
	err   error
}

// Store is a shared TTL cache. Safe for concurrent use; concurrent misses on
// the same key may both invoke the wrapped call, which is an accepted cost.
type Store struct {
	c *gocache.Cache
}

// New creates a Store with the given cleanup interval for expired entries.
func New(cleanupInterval time.Duration) *Store {
	return &Store{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Key builds a cache key from an operation name and the full parameter tuple
// of the wrapped call.
func Key(op string, parts ...any) string {
	b := strings.Builder{}
	b.WriteString(op)
	for _, p := range parts {
		b.WriteString("|")
		fmt.Fprintf(&b, "%v", p)
	}
	return b.String()
}

// Cached returns the stored outcome for key when present, otherwise invokes
// fn, stores its outcome (value or error) for ttl, and returns it.
func Cached[T any](s *Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if hit, found := s.c.Get(key); found {
		if r, ok := hit.(result[T]); ok {
			return r.value, r.err
		}
	}
	value, err := fn()
	s.c.Set(key, result[T]{value: value, err: err}, ttl)
	return value, err
}

// Flush removes every entry. Test helper.
func (s *Store) Flush() {
	s.c.Flush()
}
