package services

import (
	"context"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
	"github.com/stremthru/dashctl/internal/common"
)

// Sync directions for stremio-stremio links.
const (
	SyncDirAToB = "a_to_b"
	SyncDirBToA = "b_to_a"
	SyncDirBoth = "both"
	SyncDirNone = "none"
)

// Sync directions for stremio-trakt links.
const (
	SyncDirStremioToTrakt = "stremio_to_trakt"
	SyncDirTraktToStremio = "trakt_to_stremio"
)

// SyncState is the backend-owned progress of a link.
type SyncState struct {
	Watched SyncStateWatched `json:"watched"`
}

type SyncStateWatched struct {
	LastSyncedAt string `json:"last_synced_at,omitempty"`
}

// StremioStremioLink pairs two Stremio accounts. Its identity is the
// ordered pair (account_a_id, account_b_id); the backend keys it "a:b".
type StremioStremioLink struct {
	AccountAID string                   `json:"account_a_id"`
	AccountBID string                   `json:"account_b_id"`
	CreatedAt  string                   `json:"created_at"`
	SyncConfig StremioStremioSyncConfig `json:"sync_config"`
	SyncState  SyncState                `json:"sync_state"`
	UpdatedAt  string                   `json:"updated_at"`
}

type StremioStremioSyncConfig struct {
	Watched StremioStremioSyncConfigWatched `json:"watched"`
}

// StremioStremioSyncConfigWatched holds the direction and an optional
// item-id allowlist restricting which titles sync.
type StremioStremioSyncConfigWatched struct {
	Dir string   `json:"dir"`
	IDs []string `json:"ids"`
}

type CreateStremioStremioLinkParams struct {
	AccountAID string                   `json:"account_a_id"`
	AccountBID string                   `json:"account_b_id"`
	SyncConfig StremioStremioSyncConfig `json:"sync_config"`
}

type UpdateStremioStremioLinkParams struct {
	SyncConfig StremioStremioSyncConfig `json:"sync_config"`
}

var KeyStremioStremioLinks = cache.NewKey("/sync/stremio-stremio/links")

type StremioStremioLinkService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewStremioStremioLinkService(apiClient *api.Client, c *cache.Cache) *StremioStremioLinkService {
	return &StremioStremioLinkService{api: apiClient, cache: c}
}

func (s *StremioStremioLinkService) List(ctx context.Context) ([]StremioStremioLink, error) {
	return cache.Fetch(ctx, s.cache, KeyStremioStremioLinks, cache.StaleNever, func(ctx context.Context) ([]StremioStremioLink, error) {
		return api.Data[[]StremioStremioLink](s.api.Request(ctx, "/sync/stremio-stremio/links", api.Options{}))
	})
}

// Create validates the pair before any network call: the two accounts must
// differ, and no link may already exist for the same ordered pair. The
// reversed pair (B,A) does not conflict with (A,B).
func (s *StremioStremioLinkService) Create(ctx context.Context, params CreateStremioStremioLinkParams) (*StremioStremioLink, error) {
	if params.AccountAID == params.AccountBID {
		return nil, common.ErrSameAccount
	}
	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, link := range existing {
		if link.AccountAID == params.AccountAID && link.AccountBID == params.AccountBID {
			return nil, common.ErrLinkExists
		}
	}

	created, err := api.Data[*StremioStremioLink](s.api.Request(ctx, "POST /sync/stremio-stremio/links", api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioStremioLinks)
	return created, nil
}

func (s *StremioStremioLinkService) Update(ctx context.Context, accountAID, accountBID string, params UpdateStremioStremioLinkParams) (*StremioStremioLink, error) {
	updated, err := api.Data[*StremioStremioLink](s.api.Request(ctx,
		"PATCH /sync/stremio-stremio/links/"+accountAID+":"+accountBID, api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioStremioLinks)
	return updated, nil
}

// Delete removes the link for the ordered pair. A link for the reversed
// pair, if any, is unaffected.
func (s *StremioStremioLinkService) Delete(ctx context.Context, accountAID, accountBID string) error {
	if _, err := s.api.Request(ctx, "DELETE /sync/stremio-stremio/links/"+accountAID+":"+accountBID, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyStremioStremioLinks, func(item StremioStremioLink) bool {
		return item.AccountAID == accountAID && item.AccountBID == accountBID
	})
	return nil
}

// Sync triggers an immediate sync run for the pair. No cache effect; the
// backend updates sync_state asynchronously.
func (s *StremioStremioLinkService) Sync(ctx context.Context, accountAID, accountBID string) error {
	_, err := s.api.Request(ctx, "POST /sync/stremio-stremio/links/"+accountAID+":"+accountBID+"/sync", api.Options{})
	return err
}

// ResetSyncState clears the pair's sync progress so the next run starts
// from scratch. Irreversible; callers gate it behind confirmation.
func (s *StremioStremioLinkService) ResetSyncState(ctx context.Context, accountAID, accountBID string) (*StremioStremioLink, error) {
	reset, err := api.Data[*StremioStremioLink](s.api.Request(ctx,
		"POST /sync/stremio-stremio/links/"+accountAID+":"+accountBID+"/reset-sync-state", api.Options{}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioStremioLinks)
	return reset, nil
}
