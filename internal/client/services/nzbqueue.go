package services

import (
	"context"
	"time"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// NzbQueueItem is one pending or finished download in the usenet queue.
type NzbQueueItem struct {
	Category  string `json:"category"`
	CreatedAt string `json:"created_at"`
	Error     string `json:"error"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
	URL       string `json:"url"`
	User      string `json:"user"`
}

var KeyNzbQueue = cache.NewKey("/usenet/queue")

// NzbQueueService reads the download queue. The list is polled; PollEvery
// doubles as its staleness window.
type NzbQueueService struct {
	api   *api.Client
	cache *cache.Cache

	PollEvery time.Duration
}

func NewNzbQueueService(apiClient *api.Client, c *cache.Cache) *NzbQueueService {
	return &NzbQueueService{api: apiClient, cache: c, PollEvery: 10 * time.Minute}
}

func (s *NzbQueueService) List(ctx context.Context) ([]NzbQueueItem, error) {
	return cache.Fetch(ctx, s.cache, KeyNzbQueue, s.PollEvery, func(ctx context.Context) ([]NzbQueueItem, error) {
		return api.Data[[]NzbQueueItem](s.api.Request(ctx, "/usenet/queue", api.Options{}))
	})
}

func (s *NzbQueueService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Request(ctx, "DELETE /usenet/queue/"+id, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyNzbQueue, func(item NzbQueueItem) bool { return item.ID == id })
	return nil
}
