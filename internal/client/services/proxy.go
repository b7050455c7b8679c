package services

import (
	"context"

	"github.com/stremthru/dashctl/internal/client/api"
)

// ProxifyLinkParams wraps a direct URL into a proxied StremThru link.
type ProxifyLinkParams struct {
	Encrypt        bool   `json:"encrypt,omitempty"`
	Expiration     string `json:"exp,omitempty"`
	Filename       string `json:"filename,omitempty"`
	RequestHeaders string `json:"req_headers,omitempty"`
	URL            string `json:"url"`
}

type ProxifyLinkResult struct {
	URL string `json:"url"`
}

// ProxyService has no reads and therefore no cache involvement.
type ProxyService struct {
	api *api.Client
}

func NewProxyService(apiClient *api.Client) *ProxyService {
	return &ProxyService{api: apiClient}
}

func (s *ProxyService) ProxifyLink(ctx context.Context, params ProxifyLinkParams) (*ProxifyLinkResult, error) {
	return api.Data[*ProxifyLinkResult](s.api.Request(ctx, "POST /proxy", api.Options{Body: params}))
}
