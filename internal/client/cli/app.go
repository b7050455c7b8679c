package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/cache"
	"github.com/stremthru/dashctl/internal/client/config"
	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/logging"
)

// App wires the API client, the query cache and every resource service
// behind the interactive shell.
type App struct {
	config *config.Config
	logger logging.Logger
	cache  *cache.Cache

	auth            *services.AuthService
	rateLimits      *services.RateLimitConfigService
	usenetServers   *services.UsenetServerService
	usenet          *services.UsenetService
	nzbQueue        *services.NzbQueueService
	newznab         *services.IndexerService
	torznab         *services.IndexerService
	stremioAccounts *services.StremioAccountService
	traktAccounts   *services.TraktAccountService
	stremioLinks    *services.StremioStremioLinkService
	traktLinks      *services.StremioTraktLinkService
	torrents        *services.TorrentsService
	workers         *services.WorkersService
	stats           *services.StatsService
	imdb            *services.IMDBService
	proxy           *services.ProxyService

	// user mirrors the cached session; nil means signed out.
	user  *services.AuthedUser
	theme string

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	apiClient, err := api.New(api.Config{
		BaseURL:  cfg.BaseURL,
		BasePath: cfg.BasePath,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	auth := services.NewAuthService(apiClient, c)
	auth.StaleFor = cfg.SessionStaleFor

	queue := services.NewNzbQueueService(apiClient, c)
	queue.PollEvery = cfg.PollInterval

	return &App{
		config: cfg,
		logger: logger,
		cache:  c,

		auth:            auth,
		rateLimits:      services.NewRateLimitConfigService(apiClient, c),
		usenetServers:   services.NewUsenetServerService(apiClient, c),
		usenet:          services.NewUsenetService(apiClient, c),
		nzbQueue:        queue,
		newznab:         services.NewNewznabIndexerService(apiClient, c),
		torznab:         services.NewTorznabIndexerService(apiClient, c),
		stremioAccounts: services.NewStremioAccountService(apiClient, c),
		traktAccounts:   services.NewTraktAccountService(apiClient, c),
		stremioLinks:    services.NewStremioStremioLinkService(apiClient, c),
		traktLinks:      services.NewStremioTraktLinkService(apiClient, c),
		torrents:        services.NewTorrentsService(apiClient, c),
		workers:         services.NewWorkersService(apiClient, c),
		stats:           services.NewStatsService(apiClient, c),
		imdb:            services.NewIMDBService(apiClient, c),
		proxy:           services.NewProxyService(apiClient),

		theme:  cfg.Theme,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isSignedIn() bool {
	return a.user != nil
}

// revalidateSession reads the session through the cache. A stale entry is
// refreshed opportunistically; a 401 clears the local user.
func (a *App) revalidateSession(ctx context.Context) {
	user, err := a.auth.AuthedUser(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session check failed", "error", err)
		return
	}
	a.user = user
}

// syncUserFromCache picks up session changes made outside the sign-in
// screen, e.g. a sign-out confirmed by another code path.
func (a *App) syncUserFromCache() {
	if user, _, ok := cache.Lookup[*services.AuthedUser](a.cache, services.KeyAuthedUser); ok {
		a.user = user
	}
}

// startQueuePoller refreshes the download queue in the background so the
// queue screen stays current while the user works elsewhere. Stops with ctx.
func (a *App) startQueuePoller(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(a.config.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !a.isSignedIn() {
					continue
				}
				a.cache.Invalidate(services.KeyNzbQueue)
				pollCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
				if _, err := a.nzbQueue.List(pollCtx); err != nil {
					a.logger.Debug(pollCtx, "queue poll failed", "error", err)
				}
				cancel()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
