package cli

import (
	"context"
	"fmt"

	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

func (a *App) stremioAccountScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listStremioAccounts(ctx)
	}
	switch args[0] {
	case "add":
		return a.addStremioAccount(ctx)
	case "edit":
		return a.editStremioAccount(ctx, args[1:])
	case "rm":
		return a.removeStremioAccount(ctx, args[1:])
	case "refresh":
		return a.refreshStremioAccount(ctx, args[1:])
	case "userdata":
		return a.showStremioUserdata(ctx, args[1:])
	case "sync-userdata":
		return a.syncStremioUserdata(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, "Usage: accounts [add|edit <id>|rm <id>|refresh <id>|userdata <id>|sync-userdata <id>]")
		return nil
	}
}

func (a *App) listStremioAccounts(ctx context.Context) error {
	items, err := a.stremioAccounts.List(ctx)
	tbl := table.New(
		table.Column[services.StremioAccount]{Title: "ID", Pinned: true, Value: func(s services.StremioAccount) string { return s.ID }},
		table.Column[services.StremioAccount]{Title: "EMAIL", Value: func(s services.StremioAccount) string { return s.Email }},
		table.Column[services.StremioAccount]{Title: "VALID", Value: func(s services.StremioAccount) string { return yesNo(s.IsValid) }},
	)
	tbl.EmptyText = "no stremio accounts"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) addStremioAccount(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Stremio email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	created, err := a.stremioAccounts.Create(ctx, services.CreateStremioAccountParams{Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "created", created.ID)
	return nil
}

func (a *App) editStremioAccount(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: accounts edit <id>")
		return nil
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	updated, err := a.stremioAccounts.Update(ctx, args[0], services.UpdateStremioAccountParams{Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated", updated.ID)
	return nil
}

func (a *App) removeStremioAccount(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: accounts rm <id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Delete stremio account "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.stremioAccounts.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", args[0])
	return nil
}

// refreshStremioAccount forces the backend to recheck the credential
// against Stremio.
func (a *App) refreshStremioAccount(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: accounts refresh <id>")
		return nil
	}
	account, err := a.stremioAccounts.Get(ctx, args[0], true)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s valid: %s\n", account.ID, yesNo(account.IsValid))
	return nil
}

func (a *App) showStremioUserdata(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: accounts userdata <id>")
		return nil
	}
	items, err := a.stremioAccounts.Userdata(ctx, args[0])
	tbl := table.New(
		table.Column[services.StremioAccountUserdata]{Title: "ADDON", Pinned: true, Value: func(u services.StremioAccountUserdata) string { return u.Addon }},
		table.Column[services.StremioAccountUserdata]{Title: "NAME", Value: func(u services.StremioAccountUserdata) string { return u.Name }},
		table.Column[services.StremioAccountUserdata]{Title: "KEY", Value: func(u services.StremioAccountUserdata) string { return u.Key }},
	)
	tbl.EmptyText = "no addon userdata"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) syncStremioUserdata(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: accounts sync-userdata <id>")
		return nil
	}
	items, err := a.stremioAccounts.SyncUserdata(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "synced %d addon(s)\n", len(items))
	return nil
}
