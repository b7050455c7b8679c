package services

import (
	"context"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// UsenetConfig holds the global usenet download settings.
type UsenetConfig struct {
	ArticleCacheSize     string            `json:"article_cache_size"`
	DownloadConcurrency  int               `json:"download_concurrency"`
	IndexerRequestHeader map[string]string `json:"indexer_request_header"`
	MaxQueueSize         int               `json:"max_queue_size"`
}

// UpdateUsenetConfigParams patches a subset of the config.
type UpdateUsenetConfigParams struct {
	ArticleCacheSize     *string           `json:"article_cache_size,omitempty"`
	DownloadConcurrency  *int              `json:"download_concurrency,omitempty"`
	IndexerRequestHeader map[string]string `json:"indexer_request_header,omitempty"`
	MaxQueueSize         *int              `json:"max_queue_size,omitempty"`
}

// ParsedNZB is the result of parsing an uploaded NZB file.
type ParsedNZB struct {
	Files []ParsedNZBFile   `json:"files"`
	Meta  map[string]string `json:"meta"`
	Size  int64             `json:"size"`
}

type ParsedNZBFile struct {
	Date     string             `json:"date"`
	Groups   []string           `json:"groups"`
	Name     string             `json:"name"`
	Poster   string             `json:"poster"`
	Segments []ParsedNZBSegment `json:"segments"`
	Size     int64              `json:"size"`
	Subject  string             `json:"subject"`
}

type ParsedNZBSegment struct {
	Bytes     int64  `json:"bytes"`
	MessageID string `json:"message_id"`
	Number    int    `json:"number"`
}

var KeyUsenetConfig = cache.NewKey("/usenet/config")

// UsenetService covers the non-vault usenet surface: global config, the
// connection pool, and NZB parsing.
type UsenetService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewUsenetService(apiClient *api.Client, c *cache.Cache) *UsenetService {
	return &UsenetService{api: apiClient, cache: c}
}

func (s *UsenetService) Config(ctx context.Context) (*UsenetConfig, error) {
	return cache.Fetch(ctx, s.cache, KeyUsenetConfig, cache.StaleNever, func(ctx context.Context) (*UsenetConfig, error) {
		return api.Data[*UsenetConfig](s.api.Request(ctx, "/usenet/config", api.Options{}))
	})
}

func (s *UsenetService) UpdateConfig(ctx context.Context, params UpdateUsenetConfigParams) (*UsenetConfig, error) {
	updated, err := api.Data[*UsenetConfig](s.api.Request(ctx, "PATCH /usenet/config", api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Set(KeyUsenetConfig, updated, cache.StaleNever)
	return updated, nil
}

// RebuildPool tears down and rebuilds the backend's usenet connection pool.
// Destructive to in-flight downloads; callers gate it behind confirmation.
func (s *UsenetService) RebuildPool(ctx context.Context) error {
	_, err := s.api.Request(ctx, "POST /usenet/pool/rebuild", api.Options{})
	return err
}

// ParseNZB uploads the NZB file at path and returns its parsed contents.
func (s *UsenetService) ParseNZB(ctx context.Context, path string) (*ParsedNZB, error) {
	body := api.NewMultipartBody()
	if err := body.AddFile("file", path); err != nil {
		return nil, err
	}
	return api.Data[*ParsedNZB](s.api.Request(ctx, "POST /usenet/nzb/parse", api.Options{Body: body}))
}
