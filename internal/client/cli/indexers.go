package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/form"
	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

type indexerInput struct {
	Name   string `json:"name" validate:"required"`
	URL    string `json:"url" validate:"required,url"`
	APIKey string `json:"api_key" validate:"required"`
}

// indexerScreen serves both the newznab and the torznab collections; the
// bound service decides which endpoint family is hit.
func (a *App) indexerScreen(ctx context.Context, svc *services.IndexerService, args []string) error {
	if len(args) == 0 {
		return a.listIndexers(ctx, svc)
	}
	switch args[0] {
	case "add":
		return a.addIndexer(ctx, svc)
	case "edit":
		return a.editIndexer(ctx, svc, args[1:])
	case "rm":
		return a.removeIndexer(ctx, svc, args[1:])
	case "test":
		return a.testIndexer(ctx, svc, args[1:])
	case "toggle":
		return a.toggleIndexer(ctx, svc, args[1:])
	default:
		fmt.Fprintln(a.out, "Usage: [add|edit <id>|rm <id>|test <id>|toggle <id>]")
		return nil
	}
}

func (a *App) listIndexers(ctx context.Context, svc *services.IndexerService) error {
	items, err := svc.List(ctx)
	tbl := table.New(
		table.Column[services.Indexer]{Title: "ID", Pinned: true, Value: func(i services.Indexer) string { return strconv.FormatInt(i.ID, 10) }},
		table.Column[services.Indexer]{Title: "NAME", Pinned: true, Value: func(i services.Indexer) string { return i.Name }},
		table.Column[services.Indexer]{Title: "URL", Value: func(i services.Indexer) string { return i.URL }},
		table.Column[services.Indexer]{Title: "DISABLED", Value: func(i services.Indexer) string { return yesNo(i.Disabled) }},
		table.Column[services.Indexer]{Title: "RATELIMIT", Value: func(i services.Indexer) string {
			if i.RateLimitConfigID == nil {
				return "-"
			}
			return *i.RateLimitConfigID
		}},
	)
	tbl.EmptyText = "no indexers configured"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) addIndexer(ctx context.Context, svc *services.IndexerService) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	rawURL, err := getSimpleText(a.reader, "URL", a.out)
	if err != nil {
		return err
	}
	apiKey, err := getSimpleText(a.reader, "API key", a.out)
	if err != nil {
		return err
	}
	rateLimitID, err := getSimpleText(a.reader, "Rate limit config id (optional)", a.out)
	if err != nil {
		return err
	}

	f := form.New[indexerInput]()
	f.Set(indexerInput{Name: name, URL: rawURL, APIKey: apiKey})
	err = f.Submit(ctx, func(ctx context.Context, v indexerInput) error {
		params := services.CreateIndexerParams{Name: v.Name, URL: v.URL, APIKey: v.APIKey}
		if rateLimitID != "" {
			params.RateLimitConfigID = &rateLimitID
		}
		created, err := svc.Create(ctx, params)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "created", created.ID)
		return nil
	})
	if err == form.ErrInvalid {
		a.printFieldErrors(f.Errors())
		return nil
	}
	return err
}

func (a *App) editIndexer(ctx context.Context, svc *services.IndexerService, args []string) error {
	id, ok := a.parseIndexerID(args)
	if !ok {
		return nil
	}
	params := services.UpdateIndexerParams{}

	name, err := getSimpleText(a.reader, "Name (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		params.Name = &name
	}
	apiKey, err := getSimpleText(a.reader, "API key (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if apiKey != "" {
		params.APIKey = &apiKey
	}
	rateLimitID, err := getSimpleText(a.reader, "Rate limit config id (empty clears)", a.out)
	if err != nil {
		return err
	}
	if rateLimitID != "" {
		params.RateLimitConfigID = &rateLimitID
	}

	updated, err := svc.Update(ctx, id, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated", updated.ID)
	return nil
}

func (a *App) removeIndexer(ctx context.Context, svc *services.IndexerService, args []string) error {
	id, ok := a.parseIndexerID(args)
	if !ok {
		return nil
	}
	confirmed, err := Confirm(a.reader, fmt.Sprintf("Delete indexer %d?", id), a.out)
	if err != nil || !confirmed {
		return err
	}
	if err := svc.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", id)
	return nil
}

func (a *App) testIndexer(ctx context.Context, svc *services.IndexerService, args []string) error {
	id, ok := a.parseIndexerID(args)
	if !ok {
		return nil
	}
	tested, err := svc.Test(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "ok:", tested.Name)
	return nil
}

func (a *App) toggleIndexer(ctx context.Context, svc *services.IndexerService, args []string) error {
	id, ok := a.parseIndexerID(args)
	if !ok {
		return nil
	}
	toggled, err := svc.Toggle(ctx, id)
	if err != nil {
		return err
	}
	if toggled.Disabled {
		fmt.Fprintln(a.out, "disabled", toggled.Name)
	} else {
		fmt.Fprintln(a.out, "enabled", toggled.Name)
	}
	return nil
}

func (a *App) parseIndexerID(args []string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "an indexer id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "indexer id must be a number")
		return 0, false
	}
	return id, true
}
