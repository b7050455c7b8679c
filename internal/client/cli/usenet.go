package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/services"
)

func (a *App) usenetScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.showUsenetConfig(ctx)
	}
	switch args[0] {
	case "set":
		return a.updateUsenetConfig(ctx)
	case "rebuild-pool":
		return a.rebuildPool(ctx)
	default:
		fmt.Fprintln(a.out, "Usage: usenet [set|rebuild-pool]")
		return nil
	}
}

func (a *App) showUsenetConfig(ctx context.Context) error {
	cfg, err := a.usenet.Config(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "download_concurrency:", cfg.DownloadConcurrency)
	fmt.Fprintln(a.out, "max_queue_size:", cfg.MaxQueueSize)
	fmt.Fprintln(a.out, "article_cache_size:", orDash(cfg.ArticleCacheSize))
	for name, value := range cfg.IndexerRequestHeader {
		fmt.Fprintf(a.out, "indexer_request_header: %s: %s\n", name, value)
	}
	return nil
}

func (a *App) updateUsenetConfig(ctx context.Context) error {
	params := services.UpdateUsenetConfigParams{}

	text, err := getSimpleText(a.reader, "Download concurrency (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if text != "" {
		n, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("download concurrency must be a number: %w", err)
		}
		params.DownloadConcurrency = &n
	}

	text, err = getSimpleText(a.reader, "Max queue size (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if text != "" {
		n, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("max queue size must be a number: %w", err)
		}
		params.MaxQueueSize = &n
	}

	updated, err := a.usenet.UpdateConfig(ctx, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated; download_concurrency:", updated.DownloadConcurrency)
	return nil
}

func (a *App) rebuildPool(ctx context.Context) error {
	ok, err := Confirm(a.reader, "Rebuild the usenet connection pool? In-flight downloads are dropped.", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.usenet.RebuildPool(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "pool rebuild requested")
	return nil
}

// parseNzb uploads a local NZB file and prints its contents.
func (a *App) parseNzb(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: nzb <path>")
		return nil
	}
	parsed, err := a.usenet.ParseNZB(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d file(s), %d byte(s)\n", len(parsed.Files), parsed.Size)
	for _, f := range parsed.Files {
		fmt.Fprintf(a.out, "  %s (%d segments, %d bytes)\n", f.Name, len(f.Segments), f.Size)
	}
	return nil
}
