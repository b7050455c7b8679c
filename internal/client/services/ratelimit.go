package services

import (
	"context"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// RateLimitConfig is a named request-rate budget that indexers can be
// assigned to.
type RateLimitConfig struct {
	CreatedAt string `json:"created_at"`
	ID        string `json:"id"`
	Limit     int    `json:"limit"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
	Window    string `json:"window"`
}

// RateLimitConfigParams carries the mutable fields for create/update.
type RateLimitConfigParams struct {
	Limit  int    `json:"limit"`
	Name   string `json:"name"`
	Window string `json:"window"`
}

var KeyRateLimitConfigs = cache.NewKey("/ratelimit/configs")

type RateLimitConfigService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewRateLimitConfigService(apiClient *api.Client, c *cache.Cache) *RateLimitConfigService {
	return &RateLimitConfigService{api: apiClient, cache: c}
}

func (s *RateLimitConfigService) List(ctx context.Context) ([]RateLimitConfig, error) {
	return cache.Fetch(ctx, s.cache, KeyRateLimitConfigs, cache.StaleNever, func(ctx context.Context) ([]RateLimitConfig, error) {
		return api.Data[[]RateLimitConfig](s.api.Request(ctx, "/ratelimit/configs", api.Options{}))
	})
}

// ByID resolves a config from the cached list; nil when absent.
func (s *RateLimitConfigService) ByID(ctx context.Context, id string) (*RateLimitConfig, error) {
	if id == "" {
		return nil, nil
	}
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (s *RateLimitConfigService) Create(ctx context.Context, params RateLimitConfigParams) (*RateLimitConfig, error) {
	created, err := api.Data[*RateLimitConfig](s.api.Request(ctx, "POST /ratelimit/configs", api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyRateLimitConfigs)
	return created, nil
}

func (s *RateLimitConfigService) Update(ctx context.Context, id string, params RateLimitConfigParams) (*RateLimitConfig, error) {
	updated, err := api.Data[*RateLimitConfig](s.api.Request(ctx, "PATCH /ratelimit/configs/"+id, api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyRateLimitConfigs)
	return updated, nil
}

func (s *RateLimitConfigService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Request(ctx, "DELETE /ratelimit/configs/"+id, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyRateLimitConfigs, func(item RateLimitConfig) bool { return item.ID == id })
	return nil
}
