package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/stremthru/dashctl/internal/client/services"
)

// imdbScreen autocompletes a title query. Repeated identical queries are
// served from cache without touching the backend.
func (a *App) imdbScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: imdb <query>")
		return nil
	}
	titles, err := a.imdb.Autocomplete(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Fprintln(a.out, "no matches")
		return nil
	}
	for _, t := range titles {
		fmt.Fprintf(a.out, "%s  %s (%s, %d)\n", t.ID, t.Title, t.Type, t.Year)
	}
	return nil
}

func (a *App) proxyScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: proxy <url>")
		return nil
	}
	result, err := a.proxy.ProxifyLink(ctx, services.ProxifyLinkParams{URL: args[0]})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, result.URL)
	return nil
}
