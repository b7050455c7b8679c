package services

import (
	"context"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

type IMDBTitleStats struct {
	TotalCount int64 `json:"total_count"`
}

// ListsStats maps list provider name (anilist, letterboxd, mdblist, tmdb,
// trakt, tvdb) to its counts.
type ListsStats map[string]ListProviderStats

type ListProviderStats struct {
	TotalItems int64 `json:"total_items"`
	TotalLists int64 `json:"total_lists"`
}

type ServerStats struct {
	Feature   ServerFeatures `json:"feature"`
	StartedAt string         `json:"started_at"`
	Version   string         `json:"version"`
}

type ServerFeatures struct {
	Vault bool `json:"vault"`
}

type TorrentsStats struct {
	Files      TorrentsFilesStats `json:"files"`
	TotalCount int64              `json:"total_count"`
}

type TorrentsFilesStats struct {
	TotalCount int64 `json:"total_count"`
}

var (
	KeyIMDBTitleStats = cache.NewKey("/stats/imdb-titles")
	KeyListsStats     = cache.NewKey("/stats/lists")
	KeyServerStats    = cache.NewKey("/stats/server")
	KeyTorrentsStats  = cache.NewKey("/stats/torrents")
)

// StatsService reads the dashboard counters. Stats move slowly; every read
// shares a long staleness window.
type StatsService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewStatsService(apiClient *api.Client, c *cache.Cache) *StatsService {
	return &StatsService{api: apiClient, cache: c}
}

func (s *StatsService) IMDBTitles(ctx context.Context) (*IMDBTitleStats, error) {
	return cache.Fetch(ctx, s.cache, KeyIMDBTitleStats, staleStats, func(ctx context.Context) (*IMDBTitleStats, error) {
		return api.Data[*IMDBTitleStats](s.api.Request(ctx, "/stats/imdb-titles", api.Options{}))
	})
}

func (s *StatsService) Lists(ctx context.Context) (ListsStats, error) {
	return cache.Fetch(ctx, s.cache, KeyListsStats, staleStats, func(ctx context.Context) (ListsStats, error) {
		return api.Data[ListsStats](s.api.Request(ctx, "/stats/lists", api.Options{}))
	})
}

func (s *StatsService) Server(ctx context.Context) (*ServerStats, error) {
	return cache.Fetch(ctx, s.cache, KeyServerStats, staleStats, func(ctx context.Context) (*ServerStats, error) {
		return api.Data[*ServerStats](s.api.Request(ctx, "/stats/server", api.Options{}))
	})
}

func (s *StatsService) Torrents(ctx context.Context) (*TorrentsStats, error) {
	return cache.Fetch(ctx, s.cache, KeyTorrentsStats, staleStats, func(ctx context.Context) (*TorrentsStats, error) {
		return api.Data[*TorrentsStats](s.api.Request(ctx, "/stats/torrents", api.Options{}))
	})
}
