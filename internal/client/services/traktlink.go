package services

import (
	"context"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
	"github.com/stremthru/dashctl/internal/common"
)

// StremioTraktLink pairs a Stremio account with a Trakt account. Its
// identity is the ordered pair (stremio_account_id, trakt_account_id).
type StremioTraktLink struct {
	CreatedAt        string                 `json:"created_at"`
	StremioAccountID string                 `json:"stremio_account_id"`
	SyncConfig       StremioTraktSyncConfig `json:"sync_config"`
	SyncState        SyncState              `json:"sync_state"`
	TraktAccountID   string                 `json:"trakt_account_id"`
	UpdatedAt        string                 `json:"updated_at"`
}

type StremioTraktSyncConfig struct {
	Watched StremioTraktSyncConfigWatched `json:"watched"`
}

type StremioTraktSyncConfigWatched struct {
	Dir string `json:"dir"`
}

type CreateStremioTraktLinkParams struct {
	StremioAccountID string                 `json:"stremio_account_id"`
	SyncConfig       StremioTraktSyncConfig `json:"sync_config"`
	TraktAccountID   string                 `json:"trakt_account_id"`
}

type UpdateStremioTraktLinkParams struct {
	SyncConfig StremioTraktSyncConfig `json:"sync_config"`
}

var KeyStremioTraktLinks = cache.NewKey("/sync/stremio-trakt/links")

type StremioTraktLinkService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewStremioTraktLinkService(apiClient *api.Client, c *cache.Cache) *StremioTraktLinkService {
	return &StremioTraktLinkService{api: apiClient, cache: c}
}

func (s *StremioTraktLinkService) List(ctx context.Context) ([]StremioTraktLink, error) {
	return cache.Fetch(ctx, s.cache, KeyStremioTraktLinks, cache.StaleNever, func(ctx context.Context) ([]StremioTraktLink, error) {
		return api.Data[[]StremioTraktLink](s.api.Request(ctx, "/sync/stremio-trakt/links", api.Options{}))
	})
}

// Create rejects a duplicate ordered pair before any network call.
func (s *StremioTraktLinkService) Create(ctx context.Context, params CreateStremioTraktLinkParams) (*StremioTraktLink, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, link := range existing {
		if link.StremioAccountID == params.StremioAccountID && link.TraktAccountID == params.TraktAccountID {
			return nil, common.ErrLinkExists
		}
	}

	created, err := api.Data[*StremioTraktLink](s.api.Request(ctx, "POST /sync/stremio-trakt/links", api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioTraktLinks)
	return created, nil
}

func (s *StremioTraktLinkService) Update(ctx context.Context, stremioAccountID, traktAccountID string, params UpdateStremioTraktLinkParams) (*StremioTraktLink, error) {
	updated, err := api.Data[*StremioTraktLink](s.api.Request(ctx,
		"PATCH /sync/stremio-trakt/links/"+stremioAccountID+":"+traktAccountID, api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioTraktLinks)
	return updated, nil
}

func (s *StremioTraktLinkService) Delete(ctx context.Context, stremioAccountID, traktAccountID string) error {
	if _, err := s.api.Request(ctx, "DELETE /sync/stremio-trakt/links/"+stremioAccountID+":"+traktAccountID, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyStremioTraktLinks, func(item StremioTraktLink) bool {
		return item.StremioAccountID == stremioAccountID && item.TraktAccountID == traktAccountID
	})
	return nil
}

func (s *StremioTraktLinkService) Sync(ctx context.Context, stremioAccountID, traktAccountID string) error {
	_, err := s.api.Request(ctx, "POST /sync/stremio-trakt/links/"+stremioAccountID+":"+traktAccountID+"/sync", api.Options{})
	return err
}

func (s *StremioTraktLinkService) ResetSyncState(ctx context.Context, stremioAccountID, traktAccountID string) (*StremioTraktLink, error) {
	reset, err := api.Data[*StremioTraktLink](s.api.Request(ctx,
		"POST /sync/stremio-trakt/links/"+stremioAccountID+":"+traktAccountID+"/reset-sync-state", api.Options{}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioTraktLinks)
	return reset, nil
}
