package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(128)
	require.NoError(t, err)
	return c
}

func TestKeyPrefix(t *testing.T) {
	assert.True(t, NewKey("/torrents", "tt123").HasPrefix(NewKey("/torrents")))
	assert.True(t, NewKey("/torrents").HasPrefix(NewKey("/torrents")))
	assert.False(t, NewKey("/torrents-stats").HasPrefix(NewKey("/torrents")))
	assert.False(t, NewKey("/torrents").HasPrefix(NewKey("/torrents", "tt123")))
}

func TestSetAndLookup(t *testing.T) {
	c := newCache(t)
	key := NewKey("/ratelimit/configs")

	_, _, ok := c.Lookup(key)
	assert.False(t, ok)

	c.Set(key, []string{"a"}, StaleNever)
	v, fresh, ok := c.Lookup(key)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, []string{"a"}, v)
}

func TestStalenessWindow(t *testing.T) {
	c := newCache(t)
	now := time.Now()
	c.now = func() time.Time { return now }

	key := NewKey("/stats/server")
	c.Set(key, "v1", 2*time.Hour)

	_, fresh, _ := c.Lookup(key)
	assert.True(t, fresh)

	now = now.Add(3 * time.Hour)
	v, fresh, ok := c.Lookup(key)
	require.True(t, ok)
	assert.False(t, fresh, "entry past its window is stale but still readable")
	assert.Equal(t, "v1", v)
}

func TestInvalidateMarksStale(t *testing.T) {
	c := newCache(t)
	key := NewKey("/vault/usenet/servers")
	c.Set(key, "v1", StaleNever)

	c.Invalidate(key)
	v, fresh, ok := c.Lookup(key)
	require.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, "v1", v)
}

func TestInvalidatePrefix(t *testing.T) {
	c := newCache(t)
	c.Set(NewKey("/workers/{id}/job-logs", "w1"), "a", StaleNever)
	c.Set(NewKey("/workers/{id}/job-logs", "w2"), "b", StaleNever)
	c.Set(NewKey("/workers/details"), "c", StaleNever)

	c.InvalidatePrefix(NewKey("/workers/{id}/job-logs"))

	_, fresh, _ := c.Lookup(NewKey("/workers/{id}/job-logs", "w1"))
	assert.False(t, fresh)
	_, fresh, _ = c.Lookup(NewKey("/workers/{id}/job-logs", "w2"))
	assert.False(t, fresh)
	_, fresh, _ = c.Lookup(NewKey("/workers/details"))
	assert.True(t, fresh)
}

func TestRemove(t *testing.T) {
	c := newCache(t)
	key := NewKey("/sync/stremio-stremio/links")
	c.Set(key, "v1", StaleNever)
	c.Remove(key)
	_, _, ok := c.Lookup(key)
	assert.False(t, ok)
}

func TestMutate(t *testing.T) {
	c := newCache(t)
	key := NewKey("/vault/newznab/indexers")
	c.Set(key, []int{1, 2, 3}, StaleNever)

	Mutate(c, key, func(items []int) ([]int, bool) {
		out := items[:0:0]
		for _, it := range items {
			if it != 2 {
				out = append(out, it)
			}
		}
		return out, true
	})

	v, _, _ := Lookup[[]int](c, key)
	assert.Equal(t, []int{1, 3}, v)

	// absent keys are a no-op
	Mutate(c, NewKey("missing"), func(items []int) ([]int, bool) {
		t.Fatal("must not be called")
		return nil, false
	})
}

func TestSubscribeNotifies(t *testing.T) {
	c := newCache(t)
	key := NewKey("/usenet/queue")

	ch, cancel := c.Subscribe(key)
	defer cancel()

	c.Set(key, "v1", StaleNever)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected notification on Set")
	}

	c.Invalidate(key)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected notification on Invalidate")
	}

	cancel()
	c.Set(key, "v2", StaleNever)
	select {
	case <-ch:
		t.Fatal("cancelled subscription must not receive")
	default:
	}
}

func TestSubscribeNotifiedByPrefixInvalidation(t *testing.T) {
	c := newCache(t)
	key := NewKey("/torrents", "tt123")
	c.Set(key, "v1", StaleNever)

	ch, cancel := c.Subscribe(key)
	defer cancel()

	c.InvalidatePrefix(NewKey("/torrents"))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected notification via prefix invalidation")
	}
}

func TestFetchCachesAndDedupes(t *testing.T) {
	c := newCache(t)
	key := NewKey("/vault/stremio/accounts")

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "fetched", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key, StaleNever, fn)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent fetches of one key share a single call")
	for _, r := range results {
		assert.Equal(t, "fetched", r)
	}

	// subsequent fetch hits the cache
	v, err := c.Fetch(context.Background(), key, StaleNever, fn)
	require.NoError(t, err)
	assert.Equal(t, "fetched", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchErrorLeavesCacheUntouched(t *testing.T) {
	c := newCache(t)
	key := NewKey("/stats/torrents")
	c.Set(key, "old", 0) // immediately stale

	_, err := c.Fetch(context.Background(), key, StaleNever, func(ctx context.Context) (any, error) {
		return nil, assert.AnError
	})
	require.Error(t, err)

	v, _, ok := c.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, "old", v)
}

func TestFetchDropsSupersededResponse(t *testing.T) {
	c := newCache(t)
	key := NewKey("/auth/user")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	var got any
	go func() {
		defer close(done)
		got, _ = c.Fetch(context.Background(), key, StaleNever, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "slow-response", nil
		})
	}()

	<-started
	c.Set(key, "explicit-write", StaleNever)
	close(release)
	<-done

	assert.Equal(t, "explicit-write", got, "in-flight fetch must not clobber a newer explicit write")
	v, _, _ := c.Lookup(key)
	assert.Equal(t, "explicit-write", v)
}

func TestFetchDroppedAfterRemove(t *testing.T) {
	c := newCache(t)
	key := NewKey("/vault/trakt/accounts")
	c.Set(key, "old", 0) // immediately stale

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	var got any
	go func() {
		defer close(done)
		got, _ = c.Fetch(context.Background(), key, StaleNever, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "slow-response", nil
		})
	}()

	<-started
	c.Remove(key)
	close(release)
	<-done

	assert.Equal(t, "slow-response", got)
	_, _, ok := c.Lookup(key)
	assert.False(t, ok, "a removed key must stay removed past an in-flight fetch")
}

func TestVersionTokensFreedWithEntries(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Set(NewKey("a"), 1, StaleNever)
	c.Set(NewKey("b"), 2, StaleNever)
	c.Set(NewKey("c"), 3, StaleNever) // evicts "a"
	c.Remove(NewKey("b"))

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.versions, 1)
	_, ok := c.versions[NewKey("c").String()]
	assert.True(t, ok)
}

func TestTypedFetch(t *testing.T) {
	c := newCache(t)
	key := NewKey("/imdb/autocomplete", "dune")

	v, err := Fetch(context.Background(), c, key, 5*time.Minute, func(ctx context.Context) ([]string, error) {
		return []string{"Dune", "Dune: Part Two"}, nil
	})
	require.NoError(t, err)
	assert.Len(t, v, 2)
}

func TestTypedFetchDropsMismatchedEntry(t *testing.T) {
	c := newCache(t)
	key := NewKey("/stats/lists")
	c.Set(key, 42, StaleNever)

	var calls int
	v, err := Fetch(context.Background(), c, key, StaleNever, func(ctx context.Context) (string, error) {
		calls++
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "refetched", v)
	assert.Equal(t, 1, calls)

	got, _, ok := c.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, "refetched", got)
}
