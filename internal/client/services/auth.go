package services

import (
	"context"
	"net/http"
	"time"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// AuthedUser is the signed-in dashboard user.
type AuthedUser struct {
	ID string `json:"id"`
}

// KeyAuthedUser caches the session read. The shell subscribes to it for
// auth-state changes.
var KeyAuthedUser = cache.NewKey("/auth/user")

// AuthService wraps the cookie-session endpoints.
//
// Contract:
//   - AuthedUser: cached view of the active session. A 401 means "signed
//     out" and resolves to a nil user, never an error.
//   - SignIn: password sign-in; populates the session cache on success.
//   - SignOut: invalidates the backend session and clears the session cache.
type AuthService struct {
	api   *api.Client
	cache *cache.Cache

	// StaleFor bounds how long a session read is trusted before the next
	// access revalidates it opportunistically.
	StaleFor time.Duration
}

func NewAuthService(apiClient *api.Client, c *cache.Cache) *AuthService {
	return &AuthService{api: apiClient, cache: c, StaleFor: staleSession}
}

// AuthedUser returns the active user, or nil when there is no session.
func (s *AuthService) AuthedUser(ctx context.Context) (*AuthedUser, error) {
	return cache.Fetch(ctx, s.cache, KeyAuthedUser, s.StaleFor, func(ctx context.Context) (*AuthedUser, error) {
		user, err := api.Data[*AuthedUser](s.api.Request(ctx, "/auth/user", api.Options{}))
		if err != nil {
			if api.IsStatus(err, http.StatusUnauthorized) {
				return nil, nil
			}
			return nil, err
		}
		return user, nil
	})
}

// SignIn authenticates with user/password. On success the session cache is
// set to the returned user and marked for revalidation.
func (s *AuthService) SignIn(ctx context.Context, user, password string) (*AuthedUser, error) {
	authed, err := api.Data[*AuthedUser](s.api.Request(ctx, "POST /auth/signin", api.Options{
		Body: map[string]string{"user": user, "password": password},
	}))
	if err != nil {
		return nil, err
	}
	s.cache.Set(KeyAuthedUser, authed, s.StaleFor)
	return authed, nil
}

// SignOut ends the session. The cached user is cleared even though the next
// read will confirm against the backend.
func (s *AuthService) SignOut(ctx context.Context) error {
	if _, err := s.api.Request(ctx, "POST /auth/signout", api.Options{}); err != nil {
		return err
	}
	s.cache.Set(KeyAuthedUser, (*AuthedUser)(nil), s.StaleFor)
	s.cache.Invalidate(KeyAuthedUser)
	return nil
}
