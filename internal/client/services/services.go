// Package services contains the resource modules of the dash client: one
// service per backend collection, each wrapping the HTTP client in
// cache-aware read and write operations.
//
// Reads go through the query cache with a per-operation staleness window.
// Writes touch the network first and mutate the cache only on confirmed
// success: merging the server's record into the cached collection by id,
// removing it by id, or invalidating the affected keys so the next read
// refetches. Failures leave prior cache state untouched.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/stremthru/dashctl/internal/client/cache"
)

// Staleness windows per read class. StaleNever entries refresh only through
// explicit invalidation by writes.
const (
	staleSession = time.Minute
	staleSearch  = 5 * time.Minute
	staleStats   = 2 * time.Hour
)

// ErrMissingParam is returned by reads whose required parameter is absent.
// No network call is made in that case.
var ErrMissingParam = errors.New("missing required parameter")

func missingParam(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingParam, name)
}

// removeByID filters the cached collection under key, dropping entries whose
// id matches.
func removeByID[T any](c *cache.Cache, key cache.Key, match func(T) bool) {
	cache.Mutate(c, key, func(items []T) ([]T, bool) {
		out := make([]T, 0, len(items))
		for _, item := range items {
			if !match(item) {
				out = append(out, item)
			}
		}
		return out, true
	})
}

// mergeByID replaces the matching entry in the cached collection under key
// with updated. Entries without a match are left as-is; no refetch happens.
func mergeByID[T any](c *cache.Cache, key cache.Key, updated T, match func(T) bool) {
	cache.Mutate(c, key, func(items []T) ([]T, bool) {
		out := make([]T, len(items))
		for i, item := range items {
			if match(item) {
				out[i] = updated
			} else {
				out[i] = item
			}
		}
		return out, true
	})
}
