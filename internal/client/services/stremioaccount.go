package services

import (
	"context"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
)

// StremioAccount is a stored Stremio credential in the vault.
type StremioAccount struct {
	CreatedAt string `json:"created_at"`
	Email     string `json:"email"`
	ID        string `json:"id"`
	IsValid   bool   `json:"is_valid"`
	UpdatedAt string `json:"updated_at"`
}

// StremioAccountUserdata is one StremThru addon installed for the account.
type StremioAccountUserdata struct {
	Addon     string `json:"addon"`
	CreatedAt string `json:"created_at"`
	Key       string `json:"key"`
	Name      string `json:"name"`
}

type CreateStremioAccountParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateStremioAccountParams struct {
	Password string `json:"password"`
}

var KeyStremioAccounts = cache.NewKey("/vault/stremio/accounts")

// KeyStremioAccountUserdata identifies the userdata list of one account.
func KeyStremioAccountUserdata(id string) cache.Key {
	return cache.NewKey("/vault/stremio/accounts/{id}/userdata", id)
}

type StremioAccountService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewStremioAccountService(apiClient *api.Client, c *cache.Cache) *StremioAccountService {
	return &StremioAccountService{api: apiClient, cache: c}
}

func (s *StremioAccountService) List(ctx context.Context) ([]StremioAccount, error) {
	return cache.Fetch(ctx, s.cache, KeyStremioAccounts, cache.StaleNever, func(ctx context.Context) ([]StremioAccount, error) {
		return api.Data[[]StremioAccount](s.api.Request(ctx, "/vault/stremio/accounts", api.Options{}))
	})
}

// Get re-reads one account, optionally forcing the backend to refresh its
// validity against Stremio, and merges the result into the cached list.
func (s *StremioAccountService) Get(ctx context.Context, id string, refresh bool) (*StremioAccount, error) {
	if id == "" {
		return nil, missingParam("id")
	}
	account, err := api.Data[*StremioAccount](s.api.Request(ctx,
		"/vault/stremio/accounts/"+id+"?refresh="+strconv.FormatBool(refresh), api.Options{}))
	if err != nil {
		return nil, err
	}
	mergeByID(s.cache, KeyStremioAccounts, *account, func(item StremioAccount) bool { return item.ID == id })
	return account, nil
}

// Userdata requires a non-empty account id; the read is not issued otherwise.
func (s *StremioAccountService) Userdata(ctx context.Context, id string) ([]StremioAccountUserdata, error) {
	if id == "" {
		return nil, missingParam("id")
	}
	return cache.Fetch(ctx, s.cache, KeyStremioAccountUserdata(id), cache.StaleNever, func(ctx context.Context) ([]StremioAccountUserdata, error) {
		return api.Data[[]StremioAccountUserdata](s.api.Request(ctx, "/vault/stremio/accounts/"+id+"/userdata", api.Options{}))
	})
}

func (s *StremioAccountService) Create(ctx context.Context, params CreateStremioAccountParams) (*StremioAccount, error) {
	created, err := api.Data[*StremioAccount](s.api.Request(ctx, "POST /vault/stremio/accounts", api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioAccounts)
	return created, nil
}

func (s *StremioAccountService) Update(ctx context.Context, id string, params UpdateStremioAccountParams) (*StremioAccount, error) {
	updated, err := api.Data[*StremioAccount](s.api.Request(ctx, "PATCH /vault/stremio/accounts/"+id, api.Options{Body: params}))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(KeyStremioAccounts)
	return updated, nil
}

func (s *StremioAccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Request(ctx, "DELETE /vault/stremio/accounts/"+id, api.Options{}); err != nil {
		return err
	}
	removeByID(s.cache, KeyStremioAccounts, func(item StremioAccount) bool { return item.ID == id })
	return nil
}

// SyncUserdata asks the backend to re-pull the account's addon userdata and
// stores the fresh list under the account's userdata key.
func (s *StremioAccountService) SyncUserdata(ctx context.Context, id string) ([]StremioAccountUserdata, error) {
	items, err := api.Data[[]StremioAccountUserdata](s.api.Request(ctx, "POST /vault/stremio/accounts/"+id+"/userdata/sync", api.Options{}))
	if err != nil {
		return nil, err
	}
	s.cache.Set(KeyStremioAccountUserdata(id), items, cache.StaleNever)
	return items, nil
}
