package cli

import (
	"context"
	"fmt"
	"sort"
)

// showStats renders all dashboard counters. Each block tolerates its own
// failure so one broken endpoint does not blank the screen.
func (a *App) showStats(ctx context.Context) error {
	if server, err := a.stats.Server(ctx); err != nil {
		a.printError(err)
	} else {
		fmt.Fprintf(a.out, "server: v%s, started %s, vault: %s\n",
			server.Version, server.StartedAt, yesNo(server.Feature.Vault))
	}

	if titles, err := a.stats.IMDBTitles(ctx); err != nil {
		a.printError(err)
	} else {
		fmt.Fprintln(a.out, "imdb titles:", titles.TotalCount)
	}

	if torrents, err := a.stats.Torrents(ctx); err != nil {
		a.printError(err)
	} else {
		fmt.Fprintf(a.out, "torrents: %d (%d files)\n", torrents.TotalCount, torrents.Files.TotalCount)
	}

	if lists, err := a.stats.Lists(ctx); err != nil {
		a.printError(err)
	} else {
		providers := make([]string, 0, len(lists))
		for name := range lists {
			providers = append(providers, name)
		}
		sort.Strings(providers)
		for _, name := range providers {
			fmt.Fprintf(a.out, "lists/%s: %d lists, %d items\n",
				name, lists[name].TotalLists, lists[name].TotalItems)
		}
	}
	return nil
}
