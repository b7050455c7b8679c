package services

import (
	"context"
	"net/url"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// TraktAccount is a linked Trakt user. Its id is the trakt user slug.
type TraktAccount struct {
	CreatedAt string `json:"created_at"`
	ID        string `json:"id"`
	IsValid   bool   `json:"is_valid"`
	UpdatedAt string `json:"updated_at"`
	UserName  string `json:"user_name"`
}

type CreateTraktAccountParams struct {
	OAuthTokenID string `json:"oauth_token_id"`
}

type traktAuthURL struct {
	URL string `json:"url"`
}

var KeyTraktAccounts = cache.NewKey("/vault/trakt/accounts")

type TraktAccountService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewTraktAccountService(apiClient *api.Client, c *cache.Cache) *TraktAccountService {
	return &TraktAccountService{api: apiClient, cache: c}
}

// AuthURL returns the OAuth consent URL carrying the given state token.
func (s *TraktAccountService) AuthURL(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", missingParam("state")
	}
	data, err := api.Data[*traktAuthURL](s.api.Request(ctx, "/vault/trakt/auth/url?state="+url.QueryEscape(state), api.Options{}))
	if err != nil {
		return "", err
	}
	return data.URL, nil
}

func (s *TraktAccountService) List(ctx context.Context) ([]TraktAccount, error) {
	return cache.Fetch(ctx, s.cache, KeyTraktAccounts, cache.StaleNever, func(ctx context.Context) ([]TraktAccount, error) {
		return api.Data[[]TraktAccount](s.api.Request(ctx, "/vault/trakt/accounts", api.Options{}))
	})
}

func (s *TraktAccountService) Create(ctx context.Context, params CreateTraktAccountParams) (*TraktAccount, error) {
	created, err := api.Data[*TraktAccount](s.api.Request(ctx, "POST /vault/trakt/accounts", api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyTraktAccounts)
	return created, nil
}

func (s *TraktAccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Request(ctx, "DELETE /vault/trakt/accounts/"+id, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyTraktAccounts, func(item TraktAccount) bool { return item.ID == id })
	return nil
}
