package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
	"github.com/stremthru/dashctl/internal/common"
)

// fakeBackend serves the backend envelope and counts hits per method+path.
type fakeBackend struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{handlers: map[string]http.HandlerFunc{}, hits: map[string]int{}}
}

func (b *fakeBackend) handle(methodAndPath string, status int, data any) {
	b.handlers[methodAndPath] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
	}
}

func (b *fakeBackend) handleError(methodAndPath string, status int, message string) {
	b.handlers[methodAndPath] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"data":  nil,
			"error": map[string]any{"code": status, "message": message, "errors": []any{map[string]any{"message": message}}},
		})
	}
}

func (b *fakeBackend) handleNoContent(methodAndPath string) {
	b.handlers[methodAndPath] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.hits[key]++
	h := b.handlers[key]
	b.mu.Unlock()
	if h == nil {
		http.Error(w, "unexpected call: "+key, http.StatusNotFound)
		return
	}
	h(w, r)
}

func (b *fakeBackend) hitCount(methodAndPath string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[methodAndPath]
}

func setup(t *testing.T) (*fakeBackend, *api.Client, *cache.Cache) {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	client, err := api.New(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	c, err := cache.New(128)
	require.NoError(t, err)
	return backend, client, c
}

func TestAuthedUserUnauthorizedMeansSignedOut(t *testing.T) {
	backend, client, c := setup(t)
	backend.handleError("GET /dash/api/auth/user", http.StatusUnauthorized, "unauthorized")

	svc := NewAuthService(client, c)
	user, err := svc.AuthedUser(context.Background())
	require.NoError(t, err, "a 401 session read resolves, it does not reject")
	assert.Nil(t, user)
}

func TestSignInPopulatesSessionCache(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("POST /dash/api/auth/signin", http.StatusOK, map[string]string{"id": "u1"})
	backend.handle("GET /dash/api/auth/user", http.StatusOK, map[string]string{"id": "u1"})

	svc := NewAuthService(client, c)
	user, err := svc.SignIn(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)

	// the fresh session cache answers without a network round-trip
	again, err := svc.AuthedUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "u1", again.ID)
	assert.Equal(t, 0, backend.hitCount("GET /dash/api/auth/user"))
}

func TestSignOutClearsSession(t *testing.T) {
	backend, client, c := setup(t)
	backend.handleNoContent("POST /dash/api/auth/signout")
	backend.handleError("GET /dash/api/auth/user", http.StatusUnauthorized, "unauthorized")

	svc := NewAuthService(client, c)
	c.Set(KeyAuthedUser, &AuthedUser{ID: "u1"}, cache.StaleNever)

	require.NoError(t, svc.SignOut(context.Background()))

	user, err := svc.AuthedUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRateLimitConfigCreateInvalidatesList(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/ratelimit/configs", http.StatusOK, []map[string]any{})

	svc := NewRateLimitConfigService(client, c)
	first, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, first)

	created := map[string]any{"id": "rl1", "name": "5 per 10s", "limit": 5, "window": "10s"}
	backend.handle("POST /dash/api/ratelimit/configs", http.StatusOK, created)
	backend.handle("GET /dash/api/ratelimit/configs", http.StatusOK, []map[string]any{created})

	got, err := svc.Create(context.Background(), RateLimitConfigParams{Name: "5 per 10s", Limit: 5, Window: "10s"})
	require.NoError(t, err)
	assert.Equal(t, "rl1", got.ID)

	// the list was invalidated, so the next read refetches and sees rl1
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "rl1", list[0].ID)
	assert.Equal(t, 5, list[0].Limit)
	assert.Equal(t, 2, backend.hitCount("GET /dash/api/ratelimit/configs"))
}

func TestRateLimitConfigDeleteRemovesFromCache(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/ratelimit/configs", http.StatusOK, []map[string]any{
		{"id": "rl1", "name": "a", "limit": 1, "window": "1s"},
		{"id": "rl2", "name": "b", "limit": 2, "window": "2s"},
	})
	backend.handleNoContent("DELETE /dash/api/ratelimit/configs/rl1")

	svc := NewRateLimitConfigService(client, c)
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "rl1"))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "rl2", list[0].ID)
	assert.Equal(t, 1, backend.hitCount("GET /dash/api/ratelimit/configs"), "delete must not refetch the collection")
}

func TestRateLimitConfigDeleteFailureLeavesCache(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/ratelimit/configs", http.StatusOK, []map[string]any{
		{"id": "rl1", "name": "a", "limit": 1, "window": "1s"},
	})
	backend.handleError("DELETE /dash/api/ratelimit/configs/rl1", http.StatusInternalServerError, "boom")

	svc := NewRateLimitConfigService(client, c)
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Error(t, svc.Delete(context.Background(), "rl1"))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1, "failed delete leaves prior cache state for retry")
}

func TestIndexerToggleMergesWithoutRefetch(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/vault/newznab/indexers", http.StatusOK, []map[string]any{
		{"id": 1, "name": "nzb.example", "disabled": true},
		{"id": 2, "name": "other.example", "disabled": false},
	})
	backend.handle("POST /dash/api/vault/newznab/indexers/1/toggle", http.StatusOK,
		map[string]any{"id": 1, "name": "nzb.example", "disabled": false})

	svc := NewNewznabIndexerService(client, c)
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	toggled, err := svc.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, toggled.Disabled)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Disabled, "cached entry flips without a collection refetch")
	assert.Equal(t, 1, backend.hitCount("GET /dash/api/vault/newznab/indexers"))
}

func TestUsenetServerUpdateMergesByID(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/vault/usenet/servers", http.StatusOK, []map[string]any{
		{"id": "s1", "name": "primary", "host": "news.a", "port": 563},
		{"id": "s2", "name": "backup", "host": "news.b", "port": 563},
	})
	backend.handle("PATCH /dash/api/vault/usenet/servers/s1", http.StatusOK,
		map[string]any{"id": "s1", "name": "renamed", "host": "news.a", "port": 563})

	svc := NewUsenetServerService(client, c)
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	name := "renamed"
	_, err = svc.Update(context.Background(), "s1", UpdateUsenetServerParams{Name: &name})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "renamed", list[0].Name)
	assert.Equal(t, "backup", list[1].Name)
	assert.Equal(t, 1, backend.hitCount("GET /dash/api/vault/usenet/servers"))
}

func TestStremioStremioLinkDuplicateRejectedBeforeNetwork(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/sync/stremio-stremio/links", http.StatusOK, []map[string]any{
		{"account_a_id": "A", "account_b_id": "B"},
	})

	svc := NewStremioStremioLinkService(client, c)
	params := CreateStremioStremioLinkParams{
		AccountAID: "A",
		AccountBID: "B",
		SyncConfig: StremioStremioSyncConfig{Watched: StremioStremioSyncConfigWatched{Dir: SyncDirBoth}},
	}
	_, err := svc.Create(context.Background(), params)
	assert.ErrorIs(t, err, common.ErrLinkExists)
	assert.Equal(t, 0, backend.hitCount("POST /dash/api/sync/stremio-stremio/links"))

	// the reversed pair is a different identity and goes through
	backend.handle("POST /dash/api/sync/stremio-stremio/links", http.StatusOK,
		map[string]any{"account_a_id": "B", "account_b_id": "A"})
	reversed := params
	reversed.AccountAID, reversed.AccountBID = "B", "A"
	created, err := svc.Create(context.Background(), reversed)
	require.NoError(t, err)
	assert.Equal(t, "B", created.AccountAID)
}

func TestStremioStremioLinkSameAccountRejected(t *testing.T) {
	_, client, c := setup(t)
	svc := NewStremioStremioLinkService(client, c)
	_, err := svc.Create(context.Background(), CreateStremioStremioLinkParams{AccountAID: "A", AccountBID: "A"})
	assert.ErrorIs(t, err, common.ErrSameAccount)
}

func TestStremioStremioLinkDeleteKeepsReversedPair(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/sync/stremio-stremio/links", http.StatusOK, []map[string]any{
		{"account_a_id": "A", "account_b_id": "B"},
		{"account_a_id": "B", "account_b_id": "A"},
	})
	backend.handleNoContent("DELETE /dash/api/sync/stremio-stremio/links/A:B")

	svc := NewStremioStremioLinkService(client, c)
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "A", "B"))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].AccountAID)
	assert.Equal(t, "A", list[0].AccountBID)
	assert.Equal(t, 1, backend.hitCount("GET /dash/api/sync/stremio-stremio/links"))
}

func TestStremioTraktLinkDuplicateRejectedBeforeNetwork(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/sync/stremio-trakt/links", http.StatusOK, []map[string]any{
		{"stremio_account_id": "S", "trakt_account_id": "T"},
	})

	svc := NewStremioTraktLinkService(client, c)
	_, err := svc.Create(context.Background(), CreateStremioTraktLinkParams{
		StremioAccountID: "S",
		TraktAccountID:   "T",
		SyncConfig:       StremioTraktSyncConfig{Watched: StremioTraktSyncConfigWatched{Dir: SyncDirStremioToTrakt}},
	})
	assert.ErrorIs(t, err, common.ErrLinkExists)
	assert.Equal(t, 0, backend.hitCount("POST /dash/api/sync/stremio-trakt/links"))
}

func TestWorkerDeleteJobLogRemovesFromCache(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/workers/w1/job-logs", http.StatusOK, []map[string]any{
		{"id": "j1", "name": "sync", "status": JobStatusFailed, "error": "timeout"},
		{"id": "j2", "name": "sync", "status": JobStatusDone},
	})
	backend.handleNoContent("DELETE /dash/api/workers/w1/job-logs/j1")

	svc := NewWorkersService(client, c)
	_, err := svc.JobLogs(context.Background(), "w1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteJobLog(context.Background(), "w1", "j1"))

	logs, err := svc.JobLogs(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "j2", logs[0].ID)
	assert.Equal(t, 1, backend.hitCount("GET /dash/api/workers/w1/job-logs"))
}

func TestWorkerJobLogsRequireWorkerID(t *testing.T) {
	_, client, c := setup(t)
	svc := NewWorkersService(client, c)
	_, err := svc.JobLogs(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestStremioAccountUserdataRequiresID(t *testing.T) {
	backend, client, c := setup(t)
	svc := NewStremioAccountService(client, c)
	_, err := svc.Userdata(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.Empty(t, backend.hits)
}

func TestIMDBAutocompleteCachesPerQuery(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/imdb/autocomplete", http.StatusOK, []map[string]any{
		{"id": "tt1160419", "title": "Dune", "type": "movie", "year": 2021},
	})

	svc := NewIMDBService(client, c)

	_, err := svc.Autocomplete(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingParam)

	for i := 0; i < 3; i++ {
		titles, err := svc.Autocomplete(context.Background(), "dune")
		require.NoError(t, err)
		require.Len(t, titles, 1)
	}
	assert.Equal(t, 1, backend.hitCount("GET /dash/api/imdb/autocomplete"))
}

func TestStatsReadsAreCached(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("GET /dash/api/stats/server", http.StatusOK, map[string]any{
		"version": "1.2.3", "started_at": "2026-08-01T00:00:00Z", "feature": map[string]bool{"vault": true},
	})

	svc := NewStatsService(client, c)
	for i := 0; i < 2; i++ {
		stats, err := svc.Server(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", stats.Version)
		assert.True(t, stats.Feature.Vault)
	}
	assert.Equal(t, 1, backend.hitCount("GET /dash/api/stats/server"))
}

func TestTorrentsSearchRequiresIMDBID(t *testing.T) {
	backend, client, c := setup(t)
	svc := NewTorrentsService(client, c)
	_, err := svc.Search(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.Empty(t, backend.hits)
}

func TestTorrentsReviewSubmits(t *testing.T) {
	backend, client, c := setup(t)
	backend.handleNoContent("POST /dash/api/torrents/review")

	svc := NewTorrentsService(client, c)
	err := svc.RequestReview(context.Background(), []TorrentReviewItem{
		{Hash: "abc", Reason: ReviewReasonWrongTitle, IMDBID: "tt1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.hitCount("POST /dash/api/torrents/review"))
}

func TestUsenetConfigUpdateSetsCache(t *testing.T) {
	backend, client, c := setup(t)
	backend.handle("PATCH /dash/api/usenet/config", http.StatusOK, map[string]any{
		"download_concurrency": 4,
	})

	svc := NewUsenetService(client, c)
	concurrency := 4
	updated, err := svc.UpdateConfig(context.Background(), UpdateUsenetConfigParams{DownloadConcurrency: &concurrency})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.DownloadConcurrency)

	// the written value serves the next read without a fetch
	cfg, err := svc.Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.DownloadConcurrency)
	assert.Equal(t, 0, backend.hitCount("GET /dash/api/usenet/config"))
}
