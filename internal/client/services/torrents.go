package services

import (
	"context"
	"net/url"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// Torrent is one indexed torrent for a title, as cached by the backend.
type Torrent struct {
	Files   []TorrentFile `json:"files,omitempty"`
	Hash    string        `json:"hash"`
	Name    string        `json:"name"`
	Private bool          `json:"private"`
	Seeders int           `json:"seeders"`
	Size    string        `json:"size"`
}

type TorrentFile struct {
	AnimeSeasonID string `json:"aisd,omitempty"`
	Index         int    `json:"index"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	SeasonID      string `json:"sid,omitempty"`
	Size          int64  `json:"size"`
}

// Review reasons accepted by the backend.
const (
	ReviewReasonFakeTorrent          = "fake_torrent"
	ReviewReasonIncompleteSeasonPack = "incomplete_season_pack"
	ReviewReasonOther                = "other"
	ReviewReasonWrongMapping         = "wrong_mapping"
	ReviewReasonWrongTitle           = "wrong_title"
)

// TorrentReviewItem flags one torrent for curator review.
type TorrentReviewItem struct {
	Comment    string              `json:"comment,omitempty"`
	Files      []TorrentReviewFile `json:"files,omitempty"`
	Hash       string              `json:"hash"`
	IMDBID     string              `json:"imdb_id,omitempty"`
	PrevIMDBID string              `json:"prev_imdb_id,omitempty"`
	Reason     string              `json:"reason"`
}

// TorrentReviewFile proposes a corrected episode mapping for one file.
type TorrentReviewFile struct {
	Episode     int    `json:"ep"`
	Path        string `json:"path"`
	PrevEpisode int    `json:"prev_ep"`
	PrevSeason  int    `json:"prev_s"`
	Season      int    `json:"s"`
}

// KeyTorrents identifies the search result for one imdb id.
func KeyTorrents(imdbID string) cache.Key {
	return cache.NewKey("/torrents", imdbID)
}

type TorrentsService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewTorrentsService(apiClient *api.Client, c *cache.Cache) *TorrentsService {
	return &TorrentsService{api: apiClient, cache: c}
}

// Search requires a non-empty imdb id; no read is issued otherwise.
func (s *TorrentsService) Search(ctx context.Context, imdbID string) ([]Torrent, error) {
	if imdbID == "" {
		return nil, missingParam("imdbid")
	}
	return cache.Fetch(ctx, s.cache, KeyTorrents(imdbID), staleSearch, func(ctx context.Context) ([]Torrent, error) {
		return api.Data[[]Torrent](s.api.Request(ctx, "/torrents?imdbid="+url.QueryEscape(imdbID), api.Options{}))
	})
}

// RequestReview submits review flags for one or more torrents. No cache
// effect; review state lives entirely on the backend.
func (s *TorrentsService) RequestReview(ctx context.Context, items []TorrentReviewItem) error {
	_, err := s.api.Request(ctx, "POST /torrents/review", api.Options{
		Body: map[string][]TorrentReviewItem{"items": items},
	})
	return err
}
