package services

import (
	"context"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// Indexer is a newznab or torznab indexer in the vault. The two variants
// share one shape and differ only in their endpoint family.
type Indexer struct {
	CreatedAt         string  `json:"created_at"`
	Disabled          bool    `json:"disabled"`
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	RateLimitConfigID *string `json:"rate_limit_config_id"`
	Type              string  `json:"type"`
	UpdatedAt         string  `json:"updated_at"`
	URL               string  `json:"url"`
}

type CreateIndexerParams struct {
	APIKey            string  `json:"api_key"`
	Name              string  `json:"name"`
	RateLimitConfigID *string `json:"rate_limit_config_id"`
	URL               string  `json:"url"`
}

type UpdateIndexerParams struct {
	APIKey            *string `json:"api_key,omitempty"`
	Name              *string `json:"name,omitempty"`
	RateLimitConfigID *string `json:"rate_limit_config_id"`
}

var (
	KeyNewznabIndexers = cache.NewKey("/vault/newznab/indexers")
	KeyTorznabIndexers = cache.NewKey("/vault/torznab/indexers")
)

// IndexerService wraps one indexer collection. Use the newznab/torznab
// constructors to bind it to the right endpoint family.
type IndexerService struct {
	api      *api.Client
	cache    *cache.Cache
	basePath string
	key      cache.Key
}

func NewNewznabIndexerService(apiClient *api.Client, c *cache.Cache) *IndexerService {
	return &IndexerService{api: apiClient, cache: c, basePath: "/vault/newznab/indexers", key: KeyNewznabIndexers}
}

func NewTorznabIndexerService(apiClient *api.Client, c *cache.Cache) *IndexerService {
	return &IndexerService{api: apiClient, cache: c, basePath: "/vault/torznab/indexers", key: KeyTorznabIndexers}
}

func (s *IndexerService) itemPath(id int64) string {
	return s.basePath + "/" + strconv.FormatInt(id, 10)
}

func (s *IndexerService) List(ctx context.Context) ([]Indexer, error) {
	return cache.Fetch(ctx, s.cache, s.key, cache.StaleNever, func(ctx context.Context) ([]Indexer, error) {
		return api.Data[[]Indexer](s.api.Request(ctx, s.basePath, api.Options{}))
	})
}

func (s *IndexerService) Create(ctx context.Context, params CreateIndexerParams) (*Indexer, error) {
	created, err := api.Data[*Indexer](s.api.Request(ctx, "POST "+s.basePath, api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(s.key)
	return created, nil
}

func (s *IndexerService) Update(ctx context.Context, id int64, params UpdateIndexerParams) (*Indexer, error) {
	updated, err := api.Data[*Indexer](s.api.Request(ctx, "PATCH "+s.itemPath(id), api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	mergeByID(s.cache, s.key, *updated, func(item Indexer) bool { return item.ID == updated.ID })
	return updated, nil
}

func (s *IndexerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.api.Request(ctx, "DELETE "+s.itemPath(id), api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, s.key, func(item Indexer) bool { return item.ID == id })
	return nil
}

// Test exercises the indexer's search endpoint server-side. No cache effect.
func (s *IndexerService) Test(ctx context.Context, id int64) (*Indexer, error) {
	return api.Data[*Indexer](s.api.Request(ctx, "POST "+s.itemPath(id)+"/test", api.Options{}))
}

// Toggle flips the indexer's disabled flag and merges the server state into
// the cached list without a collection refetch.
func (s *IndexerService) Toggle(ctx context.Context, id int64) (*Indexer, error) {
	toggled, err := api.Data[*Indexer](s.api.Request(ctx, "POST "+s.itemPath(id)+"/toggle", api.Options{}))
	if err != nil {
		return nil, err
	}
	mergeByID(s.cache, s.key, *toggled, func(item Indexer) bool { return item.ID == toggled.ID })
	return toggled, nil
}
