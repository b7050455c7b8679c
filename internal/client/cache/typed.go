package cache

import (
	"context"
	"time"
)

// Fetch is the typed counterpart of Cache.Fetch. A cached value of an
// unexpected type is dropped and refetched through fn.
func Fetch[T any](ctx context.Context, c *Cache, key Key, staleFor time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	untyped := func(ctx context.Context) (any, error) { return fn(ctx) }

	v, err := c.Fetch(ctx, key, staleFor, untyped)
	if err != nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}

	// the key held a value stored under a different type; treat it as a miss
	c.Remove(key)
	v, err = c.Fetch(ctx, key, staleFor, untyped)
	if err != nil {
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

// Lookup returns the cached value for key typed as T.
func Lookup[T any](c *Cache, key Key) (value T, fresh, ok bool) {
	v, fresh, ok := c.Lookup(key)
	if !ok {
		var zero T
		return zero, false, false
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, false, false
	}
	return t, fresh, true
}

// Mutate rewrites the cached value for key through a typed fn. Entries of a
// different type are left untouched.
func Mutate[T any](c *Cache, key Key, fn func(value T) (T, bool)) {
	c.Mutate(key, func(value any) (any, bool) {
		t, ok := value.(T)
		if !ok {
			return nil, false
		}
		next, ok := fn(t)
		return next, ok
	})
}
