package services

import (
	"context"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// IMDBTitle is one autocomplete suggestion.
type IMDBTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Year  int    `json:"year"`
}

// KeyIMDBAutocomplete identifies the suggestions for one query string.
func KeyIMDBAutocomplete(query string) cache.Key {
	return cache.NewKey("/imdb/autocomplete", query)
}

// IMDBService serves title autocompletion. Lookups for fast-changing input
// are throttled client-side so keystroke-driven callers cannot flood the
// backend; cached queries bypass the limiter entirely.
type IMDBService struct {
	api     *api.Client
	cache   *cache.Cache
	limiter *rate.Limiter
}

func NewIMDBService(apiClient *api.Client, c *cache.Cache) *IMDBService {
	return &IMDBService{
		api:   apiClient,
		cache: c,
		// one lookup per 300ms with a small burst, mirroring input debounce
		limiter: rate.NewLimiter(rate.Every(300*time.Millisecond), 2),
	}
}

// Autocomplete requires a non-empty query; no read is issued otherwise.
func (s *IMDBService) Autocomplete(ctx context.Context, query string) ([]IMDBTitle, error) {
	if query == "" {
		return nil, missingParam("query")
	}
	return cache.Fetch(ctx, s.cache, KeyIMDBAutocomplete(query), staleSearch, func(ctx context.Context) ([]IMDBTitle, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return api.Data[[]IMDBTitle](s.api.Request(ctx, "/imdb/autocomplete?query="+url.QueryEscape(query), api.Options{}))
	})
}
