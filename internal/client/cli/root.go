package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stremthru/dashctl/internal/client/config"
	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/common"
)

func (a *App) prompt() string {
	s := ""
	if a.user != nil {
		s = a.user.ID
	}
	if marker := themeMarker(config.EffectiveTheme(a.theme)); marker != "" {
		s = strings.TrimSpace(s + " " + marker)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return fmt.Sprintf("dashctl %s> ", s)
}

func (a *App) printHelp() {
	if a.isSignedIn() {
		fmt.Fprintln(a.out, "Available commands:")
		fmt.Fprintln(a.out, "  stats                         dashboard counters")
		fmt.Fprintln(a.out, "  ratelimits [add|edit|rm]      rate limit configs")
		fmt.Fprintln(a.out, "  servers [add|edit|rm|ping]    usenet servers")
		fmt.Fprintln(a.out, "  usenet [set|rebuild-pool]     usenet config and pool")
		fmt.Fprintln(a.out, "  nzb <path>                    parse an NZB file")
		fmt.Fprintln(a.out, "  queue [rm <id>]               download queue")
		fmt.Fprintln(a.out, "  indexers [...]                newznab indexers (add|edit|rm|test|toggle)")
		fmt.Fprintln(a.out, "  torznab [...]                 torznab indexers (same actions)")
		fmt.Fprintln(a.out, "  accounts [...]                stremio accounts (add|edit|rm|refresh|userdata|sync-userdata)")
		fmt.Fprintln(a.out, "  trakt [add|rm]                trakt accounts")
		fmt.Fprintln(a.out, "  links [...]                   stremio-stremio sync links (add|edit|rm|sync|reset)")
		fmt.Fprintln(a.out, "  trakt-links [...]             stremio-trakt sync links (same actions)")
		fmt.Fprintln(a.out, "  torrents <imdbid>             search cached torrents")
		fmt.Fprintln(a.out, "  review <imdbid>               flag torrents for review")
		fmt.Fprintln(a.out, "  workers [...]                 workers (logs|files|rm-log|purge-logs|purge-files)")
		fmt.Fprintln(a.out, "  imdb <query>                  title autocomplete")
		fmt.Fprintln(a.out, "  proxy <url>                   proxify a direct link")
		fmt.Fprintln(a.out, "  theme [dark|light|system]     switch and persist the theme")
		fmt.Fprintln(a.out, "  signout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: signin, theme, exit")
	}
}

// Root runs the shell until EOF or exit. The session is revalidated up
// front so a still-valid cookie skips the sign-in prompt.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "StremThru dashboard shell (type 'help' for commands)")

	a.revalidateSession(ctx)
	a.startQueuePoller(ctx)

	// the prompt tracks the cached session, however it changes
	sessionChanged, cancelSub := a.cache.Subscribe(services.KeyAuthedUser)
	defer cancelSub()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-sessionChanged:
			a.syncUserFromCache()
		default:
		}
		fmt.Fprint(a.out, a.prompt())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		if parts[0] == "exit" || parts[0] == "quit" {
			fmt.Fprintln(a.out, "Bye!")
			return
		}
		a.dispatch(ctx, parts[0], parts[1:])
	}
}

// dispatch routes one command line. Anything but signin, theme and help
// requires a session.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		a.printHelp()
		return
	case "signin":
		if err := a.signIn(ctx); err != nil {
			a.printError(err)
		}
		return
	case "theme":
		if err := a.switchTheme(args); err != nil {
			a.printError(err)
		}
		return
	}

	// opportunistic revalidation: a fresh session entry answers from cache,
	// a stale one confirms against the backend before the command runs
	a.revalidateSession(ctx)
	if !a.isSignedIn() {
		fmt.Fprintf(a.out, "%s. Use 'signin' first.\n", common.ErrNotSignedIn)
		return
	}

	// one context per command so a slow screen cannot outlive its dispatch
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var err error
	switch cmd {
	case "signout":
		err = a.signOut(ctx)
	case "stats":
		err = a.showStats(ctx)
	case "ratelimits":
		err = a.rateLimitScreen(ctx, args)
	case "servers":
		err = a.serversScreen(ctx, args)
	case "usenet":
		err = a.usenetScreen(ctx, args)
	case "nzb":
		err = a.parseNzb(ctx, args)
	case "queue":
		err = a.queueScreen(ctx, args)
	case "indexers":
		err = a.indexerScreen(ctx, a.newznab, args)
	case "torznab":
		err = a.indexerScreen(ctx, a.torznab, args)
	case "accounts":
		err = a.stremioAccountScreen(ctx, args)
	case "trakt":
		err = a.traktAccountScreen(ctx, args)
	case "links":
		err = a.stremioLinkScreen(ctx, args)
	case "trakt-links":
		err = a.traktLinkScreen(ctx, args)
	case "torrents":
		err = a.torrentsScreen(ctx, args)
	case "review":
		err = a.reviewScreen(ctx, args)
	case "workers":
		err = a.workersScreen(ctx, args)
	case "imdb":
		err = a.imdbScreen(ctx, args)
	case "proxy":
		err = a.proxyScreen(ctx, args)
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		return
	}
	if err != nil {
		a.printError(err)
	}
}
