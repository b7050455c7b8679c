package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

func (a *App) traktAccountScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listTraktAccounts(ctx)
	}
	switch args[0] {
	case "add":
		return a.addTraktAccount(ctx)
	case "rm":
		return a.removeTraktAccount(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, "Usage: trakt [add|rm <id>]")
		return nil
	}
}

func (a *App) listTraktAccounts(ctx context.Context) error {
	items, err := a.traktAccounts.List(ctx)
	tbl := table.New(
		table.Column[services.TraktAccount]{Title: "ID", Pinned: true, Value: func(t services.TraktAccount) string { return t.ID }},
		table.Column[services.TraktAccount]{Title: "USER", Value: func(t services.TraktAccount) string { return t.UserName }},
		table.Column[services.TraktAccount]{Title: "VALID", Value: func(t services.TraktAccount) string { return yesNo(t.IsValid) }},
	)
	tbl.EmptyText = "no trakt accounts"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

// addTraktAccount walks the OAuth device-less flow: show the authorization
// URL, let the user complete it in a browser, then exchange the resulting
// token id for an account.
func (a *App) addTraktAccount(ctx context.Context) error {
	state := uuid.NewString()
	authURL, err := a.traktAccounts.AuthURL(ctx, state)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Open this URL and authorize:")
	fmt.Fprintln(a.out, "  "+authURL)

	tokenID, err := getSimpleText(a.reader, "Paste the oauth token id", a.out)
	if err != nil {
		return err
	}
	created, err := a.traktAccounts.Create(ctx, services.CreateTraktAccountParams{OAuthTokenID: tokenID})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "linked", created.ID)
	return nil
}

func (a *App) removeTraktAccount(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: trakt rm <id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Unlink trakt account "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.traktAccounts.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "unlinked", args[0])
	return nil
}
