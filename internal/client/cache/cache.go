// Package cache implements the client-side query cache: an in-memory store
// of past request results keyed by endpoint+params tuples, with declarative
// staleness windows, explicit invalidation, and key subscriptions.
//
// The cache never talks to the network itself. Read-through behavior lives
// in Fetch, which deduplicates concurrent fetches of the same key and drops
// responses that were superseded by an explicit write.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// StaleNever marks an entry as fresh until it is explicitly invalidated.
const StaleNever time.Duration = -1

// keySep joins key parts in the canonical string form. The unit separator
// cannot appear in endpoint paths or params, so part boundaries stay exact.
const keySep = "\x1f"

// Key is an ordered tuple identifying one cached query, conventionally
// the endpoint path followed by its parameters.
type Key []string

func NewKey(parts ...string) Key {
	return Key(parts)
}

func (k Key) String() string {
	return strings.Join(k, keySep)
}

// HasPrefix reports part-wise prefix containment: ["/torrents"] covers
// ["/torrents", "tt123"] but not ["/torrents-stats"].
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	staleFor  time.Duration
	invalid   bool
}

func (e *entry) fresh(now time.Time) bool {
	if e.invalid {
		return false
	}
	if e.staleFor == StaleNever {
		return true
	}
	return now.Sub(e.fetchedAt) < e.staleFor
}

// Cache is safe for use from multiple goroutines (screens and pollers share
// one instance). Eviction is memory management only; it is distinct from
// invalidation and does not notify subscribers.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *entry]
	// versions holds a per-key write token, replaced on every write and
	// dropped when the entry leaves the cache. Fetch compares the token
	// around fn to detect superseded responses.
	version  uint64
	versions map[string]uint64
	subs     map[string]map[int]chan struct{}
	nextSub  int
	group    singleflight.Group
	now      func() time.Time
}

// New creates a Cache bounded to size entries.
func New(size int) (*Cache, error) {
	c := &Cache{
		versions: map[string]uint64{},
		subs:     map[string]map[int]chan struct{}{},
		now:      time.Now,
	}
	entries, err := lru.NewWithEvict(size, func(ks string, _ *entry) {
		delete(c.versions, ks)
	})
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// Lookup returns the cached value for key along with whether it is still
// fresh. Stale values remain readable; freshness only governs refetching.
func (c *Cache) Lookup(key Key) (value any, fresh, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key.String())
	if !ok {
		return nil, false, false
	}
	return e.value, e.fresh(c.now()), true
}

// Set stores value under key with the given staleness window and notifies
// subscribers. It counts as an explicit write: any in-flight fetch of the
// same key started before this call will not clobber it.
func (c *Cache) Set(key Key, value any, staleFor time.Duration) {
	c.mu.Lock()
	c.store(key, value, staleFor)
	c.notifyLocked(key)
	c.mu.Unlock()
}

// Mutate atomically rewrites the cached value for key, if present. fn
// receives the current value and returns the replacement; returning ok=false
// leaves the entry untouched. Used by writes that merge or filter a cached
// collection by id without a refetch.
func (c *Cache) Mutate(key Key, fn func(value any) (any, bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries.Get(key.String())
	if !found {
		return
	}
	next, ok := fn(e.value)
	if !ok {
		return
	}
	e.value = next
	c.bumpLocked(key.String())
	c.notifyLocked(key)
}

// Invalidate marks the entry for key stale so the next read refetches.
// The cached value stays readable in the meantime.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked(key)
}

// InvalidatePrefix invalidates every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ks := range c.entries.Keys() {
		if e, ok := c.entries.Peek(ks); ok && e.key.HasPrefix(prefix) {
			c.invalidateLocked(e.key)
		}
	}
}

// Remove deletes the entry for key entirely, along with its write token,
// and notifies subscribers.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ks := key.String()
	c.entries.Remove(ks)
	delete(c.versions, ks)
	c.notifyLocked(key)
}

// Subscribe registers interest in key. The returned channel receives a
// (coalesced) signal whenever the entry is set, mutated, invalidated, or
// removed. cancel must be called to release the subscription.
func (c *Cache) Subscribe(key Key) (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks := key.String()
	ch := make(chan struct{}, 1)
	id := c.nextSub
	c.nextSub++
	if c.subs[ks] == nil {
		c.subs[ks] = map[int]chan struct{}{}
	}
	c.subs[ks][id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if m := c.subs[ks]; m != nil {
			delete(m, id)
			if len(m) == 0 {
				delete(c.subs, ks)
			}
		}
	}
	return ch, cancel
}

func (c *Cache) store(key Key, value any, staleFor time.Duration) {
	ks := key.String()
	c.entries.Add(ks, &entry{
		key:       key,
		value:     value,
		fetchedAt: c.now(),
		staleFor:  staleFor,
	})
	c.bumpLocked(ks)
}

// bumpLocked issues a fresh write token for ks. Tokens come from a single
// monotone counter, so a key removed and rewritten never repeats one.
func (c *Cache) bumpLocked(ks string) {
	c.version++
	c.versions[ks] = c.version
}

func (c *Cache) invalidateLocked(key Key) {
	if e, ok := c.entries.Get(key.String()); ok {
		e.invalid = true
	}
	c.bumpLocked(key.String())
	c.notifyLocked(key)
}

func (c *Cache) notifyLocked(key Key) {
	for _, ch := range c.subs[key.String()] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Fetch is the read-through path: a fresh cached value is returned as-is,
// otherwise fn runs and its result is stored under key. Concurrent fetches
// of one key share a single fn call. If an explicit write to the key lands
// while fn is in flight, the fetched result is dropped in favor of the
// written value.
func (c *Cache) Fetch(ctx context.Context, key Key, staleFor time.Duration, fn func(ctx context.Context) (any, error)) (any, error) {
	ks := key.String()

	if v, fresh, ok := c.Lookup(key); ok && fresh {
		return v, nil
	}

	v, err, _ := c.group.Do(ks, func() (any, error) {
		c.mu.Lock()
		if e, ok := c.entries.Get(ks); ok && e.fresh(c.now()) {
			v := e.value
			c.mu.Unlock()
			return v, nil
		}
		before, hadToken := c.versions[ks]
		c.mu.Unlock()

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if after, has := c.versions[ks]; has != hadToken || after != before {
			// superseded by an explicit write or removal; prefer what the
			// writer left behind
			if e, ok := c.entries.Get(ks); ok {
				return e.value, nil
			}
			return v, nil
		}
		c.store(key, v, staleFor)
		c.notifyLocked(key)
		return v, nil
	})
	return v, err
}
