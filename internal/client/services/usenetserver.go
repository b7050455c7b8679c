package services

import (
	"context"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// UsenetServer is a configured NNTP server in the vault. Passwords are
// write-only; the backend never echoes them back.
type UsenetServer struct {
	CreatedAt      string `json:"created_at"`
	Host           string `json:"host"`
	ID             string `json:"id"`
	IsBackup       bool   `json:"is_backup"`
	MaxConnections int    `json:"max_connections"`
	Name           string `json:"name"`
	Port           int    `json:"port"`
	Priority       int    `json:"priority"`
	TLS            bool   `json:"tls"`
	TLSSkipVerify  bool   `json:"tls_skip_verify"`
	UpdatedAt      string `json:"updated_at"`
	Username       string `json:"username"`
}

type CreateUsenetServerParams struct {
	Host           string `json:"host"`
	IsBackup       bool   `json:"is_backup"`
	MaxConnections int    `json:"max_connections"`
	Name           string `json:"name"`
	Password       string `json:"password"`
	Port           int    `json:"port"`
	Priority       int    `json:"priority"`
	TLS            bool   `json:"tls"`
	TLSSkipVerify  bool   `json:"tls_skip_verify"`
	Username       string `json:"username"`
}

// UpdateUsenetServerParams uses pointers so only set fields are patched.
type UpdateUsenetServerParams struct {
	Host           *string `json:"host,omitempty"`
	IsBackup       *bool   `json:"is_backup,omitempty"`
	MaxConnections *int    `json:"max_connections,omitempty"`
	Name           *string `json:"name,omitempty"`
	Password       *string `json:"password,omitempty"`
	Port           *int    `json:"port,omitempty"`
	Priority       *int    `json:"priority,omitempty"`
	TLS            *bool   `json:"tls,omitempty"`
	TLSSkipVerify  *bool   `json:"tls_skip_verify,omitempty"`
	Username       *string `json:"username,omitempty"`
}

// PingUsenetServerParams probes connectivity with explicit credentials,
// optionally referencing a stored server by id.
type PingUsenetServerParams struct {
	Host          string `json:"host"`
	ID            string `json:"id,omitempty"`
	Password      string `json:"password"`
	Port          int    `json:"port"`
	TLS           bool   `json:"tls"`
	TLSSkipVerify bool   `json:"tls_skip_verify"`
	Username      string `json:"username"`
}

type PingUsenetServerResult struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

var KeyUsenetServers = cache.NewKey("/vault/usenet/servers")

type UsenetServerService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewUsenetServerService(apiClient *api.Client, c *cache.Cache) *UsenetServerService {
	return &UsenetServerService{api: apiClient, cache: c}
}

func (s *UsenetServerService) List(ctx context.Context) ([]UsenetServer, error) {
	return cache.Fetch(ctx, s.cache, KeyUsenetServers, cache.StaleNever, func(ctx context.Context) ([]UsenetServer, error) {
		return api.Data[[]UsenetServer](s.api.Request(ctx, "/vault/usenet/servers", api.Options{}))
	})
}

func (s *UsenetServerService) Create(ctx context.Context, params CreateUsenetServerParams) (*UsenetServer, error) {
	created, err := api.Data[*UsenetServer](s.api.Request(ctx, "POST /vault/usenet/servers", api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyUsenetServers)
	return created, nil
}

// Update patches the server and merges the response into the cached list by
// id, without refetching the whole collection.
func (s *UsenetServerService) Update(ctx context.Context, id string, params UpdateUsenetServerParams) (*UsenetServer, error) {
	updated, err := api.Data[*UsenetServer](s.api.Request(ctx, "PATCH /vault/usenet/servers/"+id, api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	mergeByID(s.cache, KeyUsenetServers, *updated, func(item UsenetServer) bool { return item.ID == updated.ID })
	return updated, nil
}

func (s *UsenetServerService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Request(ctx, "DELETE /vault/usenet/servers/"+id, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyUsenetServers, func(item UsenetServer) bool { return item.ID == id })
	return nil
}

// Ping checks reachability of the given server parameters. No cache effect.
func (s *UsenetServerService) Ping(ctx context.Context, params PingUsenetServerParams) (*PingUsenetServerResult, error) {
	return api.Data[*PingUsenetServerResult](s.api.Request(ctx, "POST /vault/usenet/servers/ping", api.Options{Body: params}))
}
