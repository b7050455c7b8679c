package cli

import (
	"context"
	"fmt"

	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

// stremioLinkScreen manages stremio-stremio sync links. Every action below
// the list takes the two account ids identifying the ordered pair.
func (a *App) stremioLinkScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listStremioLinks(ctx)
	}
	pair := args[1:]
	switch args[0] {
	case "add":
		return a.addStremioLink(ctx)
	case "edit":
		return a.editStremioLink(ctx, pair)
	case "rm":
		return a.removeStremioLink(ctx, pair)
	case "sync":
		return a.runStremioLinkSync(ctx, pair)
	case "reset":
		return a.resetStremioLink(ctx, pair)
	default:
		fmt.Fprintln(a.out, "Usage: links [add|edit <a> <b>|rm <a> <b>|sync <a> <b>|reset <a> <b>]")
		return nil
	}
}

func (a *App) listStremioLinks(ctx context.Context) error {
	items, err := a.stremioLinks.List(ctx)
	tbl := table.New(
		table.Column[services.StremioStremioLink]{Title: "A", Pinned: true, Value: func(l services.StremioStremioLink) string { return l.AccountAID }},
		table.Column[services.StremioStremioLink]{Title: "B", Pinned: true, Value: func(l services.StremioStremioLink) string { return l.AccountBID }},
		table.Column[services.StremioStremioLink]{Title: "DIR", Value: func(l services.StremioStremioLink) string { return l.SyncConfig.Watched.Dir }},
		table.Column[services.StremioStremioLink]{Title: "LAST SYNC", Value: func(l services.StremioStremioLink) string { return orDash(l.SyncState.Watched.LastSyncedAt) }},
	)
	tbl.EmptyText = "no sync links"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) addStremioLink(ctx context.Context) error {
	accountA, err := getSimpleText(a.reader, "Account A id", a.out)
	if err != nil {
		return err
	}
	accountB, err := getSimpleText(a.reader, "Account B id", a.out)
	if err != nil {
		return err
	}
	dir, err := GetOptionalText(a.reader, "Watched sync direction (a_to_b, b_to_a, both, none)", services.SyncDirBoth, a.out)
	if err != nil {
		return err
	}

	created, err := a.stremioLinks.Create(ctx, services.CreateStremioStremioLinkParams{
		AccountAID: accountA,
		AccountBID: accountB,
		SyncConfig: services.StremioStremioSyncConfig{
			Watched: services.StremioStremioSyncConfigWatched{Dir: dir},
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "linked %s:%s\n", created.AccountAID, created.AccountBID)
	return nil
}

func (a *App) editStremioLink(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: links edit <account-a> <account-b>")
		return nil
	}
	dir, err := GetOptionalText(a.reader, "Watched sync direction (a_to_b, b_to_a, both, none)", services.SyncDirBoth, a.out)
	if err != nil {
		return err
	}
	_, err = a.stremioLinks.Update(ctx, pair[0], pair[1], services.UpdateStremioStremioLinkParams{
		SyncConfig: services.StremioStremioSyncConfig{
			Watched: services.StremioStremioSyncConfigWatched{Dir: dir},
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated")
	return nil
}

func (a *App) removeStremioLink(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: links rm <account-a> <account-b>")
		return nil
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete link %s:%s?", pair[0], pair[1]), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.stremioLinks.Delete(ctx, pair[0], pair[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted")
	return nil
}

func (a *App) runStremioLinkSync(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: links sync <account-a> <account-b>")
		return nil
	}
	if err := a.stremioLinks.Sync(ctx, pair[0], pair[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "sync started")
	return nil
}

func (a *App) resetStremioLink(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: links reset <account-a> <account-b>")
		return nil
	}
	ok, err := Confirm(a.reader, "Reset sync state? The next run starts from scratch.", a.out)
	if err != nil || !ok {
		return err
	}
	if _, err := a.stremioLinks.ResetSyncState(ctx, pair[0], pair[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "sync state reset")
	return nil
}

// traktLinkScreen mirrors the stremio-stremio screen for stremio-trakt
// pairs.
func (a *App) traktLinkScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listTraktLinks(ctx)
	}
	pair := args[1:]
	switch args[0] {
	case "add":
		return a.addTraktLink(ctx)
	case "edit":
		return a.editTraktLink(ctx, pair)
	case "rm":
		return a.removeTraktLink(ctx, pair)
	case "sync":
		return a.runTraktLinkSync(ctx, pair)
	case "reset":
		return a.resetTraktLink(ctx, pair)
	default:
		fmt.Fprintln(a.out, "Usage: trakt-links [add|edit <stremio> <trakt>|rm <stremio> <trakt>|sync <stremio> <trakt>|reset <stremio> <trakt>]")
		return nil
	}
}

func (a *App) listTraktLinks(ctx context.Context) error {
	items, err := a.traktLinks.List(ctx)
	tbl := table.New(
		table.Column[services.StremioTraktLink]{Title: "STREMIO", Pinned: true, Value: func(l services.StremioTraktLink) string { return l.StremioAccountID }},
		table.Column[services.StremioTraktLink]{Title: "TRAKT", Pinned: true, Value: func(l services.StremioTraktLink) string { return l.TraktAccountID }},
		table.Column[services.StremioTraktLink]{Title: "DIR", Value: func(l services.StremioTraktLink) string { return l.SyncConfig.Watched.Dir }},
		table.Column[services.StremioTraktLink]{Title: "LAST SYNC", Value: func(l services.StremioTraktLink) string { return orDash(l.SyncState.Watched.LastSyncedAt) }},
	)
	tbl.EmptyText = "no sync links"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) addTraktLink(ctx context.Context) error {
	stremioID, err := getSimpleText(a.reader, "Stremio account id", a.out)
	if err != nil {
		return err
	}
	traktID, err := getSimpleText(a.reader, "Trakt account id", a.out)
	if err != nil {
		return err
	}
	dir, err := GetOptionalText(a.reader, "Watched sync direction (stremio_to_trakt, trakt_to_stremio)", services.SyncDirStremioToTrakt, a.out)
	if err != nil {
		return err
	}

	created, err := a.traktLinks.Create(ctx, services.CreateStremioTraktLinkParams{
		StremioAccountID: stremioID,
		TraktAccountID:   traktID,
		SyncConfig: services.StremioTraktSyncConfig{
			Watched: services.StremioTraktSyncConfigWatched{Dir: dir},
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "linked %s:%s\n", created.StremioAccountID, created.TraktAccountID)
	return nil
}

func (a *App) editTraktLink(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: trakt-links edit <stremio> <trakt>")
		return nil
	}
	dir, err := GetOptionalText(a.reader, "Watched sync direction (stremio_to_trakt, trakt_to_stremio)", services.SyncDirStremioToTrakt, a.out)
	if err != nil {
		return err
	}
	_, err = a.traktLinks.Update(ctx, pair[0], pair[1], services.UpdateStremioTraktLinkParams{
		SyncConfig: services.StremioTraktSyncConfig{
			Watched: services.StremioTraktSyncConfigWatched{Dir: dir},
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated")
	return nil
}

func (a *App) removeTraktLink(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: trakt-links rm <stremio> <trakt>")
		return nil
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete link %s:%s?", pair[0], pair[1]), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.traktLinks.Delete(ctx, pair[0], pair[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted")
	return nil
}

func (a *App) runTraktLinkSync(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: trakt-links sync <stremio> <trakt>")
		return nil
	}
	if err := a.traktLinks.Sync(ctx, pair[0], pair[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "sync started")
	return nil
}

func (a *App) resetTraktLink(ctx context.Context, pair []string) error {
	if len(pair) < 2 {
		fmt.Fprintln(a.out, "Usage: trakt-links reset <stremio> <trakt>")
		return nil
	}
	ok, err := Confirm(a.reader, "Reset sync state? The next run starts from scratch.", a.out)
	if err != nil || !ok {
		return err
	}
	if _, err := a.traktLinks.ResetSyncState(ctx, pair[0], pair[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "sync state reset")
	return nil
}
