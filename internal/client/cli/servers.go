package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

func (a *App) serversScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listServers(ctx)
	}
	switch args[0] {
	case "add":
		return a.addServer(ctx)
	case "edit":
		return a.editServer(ctx, args[1:])
	case "rm":
		return a.removeServer(ctx, args[1:])
	case "ping":
		return a.pingServer(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, "Usage: servers [add|edit <id>|rm <id>|ping <id>]")
		return nil
	}
}

func (a *App) listServers(ctx context.Context) error {
	items, err := a.usenetServers.List(ctx)
	tbl := table.New(
		table.Column[services.UsenetServer]{Title: "ID", Pinned: true, Value: func(s services.UsenetServer) string { return s.ID }},
		table.Column[services.UsenetServer]{Title: "NAME", Pinned: true, Value: func(s services.UsenetServer) string { return s.Name }},
		table.Column[services.UsenetServer]{Title: "HOST", Value: func(s services.UsenetServer) string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }},
		table.Column[services.UsenetServer]{Title: "TLS", Value: func(s services.UsenetServer) string { return yesNo(s.TLS) }},
		table.Column[services.UsenetServer]{Title: "CONN", Value: func(s services.UsenetServer) string { return strconv.Itoa(s.MaxConnections) }},
		table.Column[services.UsenetServer]{Title: "BACKUP", Value: func(s services.UsenetServer) string { return yesNo(s.IsBackup) }},
	)
	tbl.EmptyText = "no usenet servers configured"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) addServer(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	host, err := getSimpleText(a.reader, "Host", a.out)
	if err != nil {
		return err
	}
	portText, err := GetOptionalText(a.reader, "Port", "563", a.out)
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return fmt.Errorf("port must be a number: %w", err)
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	tlsOn, err := Confirm(a.reader, "Use TLS?", a.out)
	if err != nil {
		return err
	}
	connText, err := GetOptionalText(a.reader, "Max connections", "10", a.out)
	if err != nil {
		return err
	}
	conns, err := strconv.Atoi(connText)
	if err != nil {
		return fmt.Errorf("max connections must be a number: %w", err)
	}
	backup, err := Confirm(a.reader, "Backup server?", a.out)
	if err != nil {
		return err
	}

	created, err := a.usenetServers.Create(ctx, services.CreateUsenetServerParams{
		Name:           name,
		Host:           host,
		Port:           port,
		Username:       username,
		Password:       password,
		TLS:            tlsOn,
		MaxConnections: conns,
		IsBackup:       backup,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "created", created.ID)
	return nil
}

// editServer patches only the fields the user actually filled in.
func (a *App) editServer(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: servers edit <id>")
		return nil
	}
	params := services.UpdateUsenetServerParams{}

	name, err := getSimpleText(a.reader, "Name (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		params.Name = &name
	}
	host, err := getSimpleText(a.reader, "Host (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if host != "" {
		params.Host = &host
	}
	portText, err := getSimpleText(a.reader, "Port (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if portText != "" {
		port, err := strconv.Atoi(portText)
		if err != nil {
			return fmt.Errorf("port must be a number: %w", err)
		}
		params.Port = &port
	}

	updated, err := a.usenetServers.Update(ctx, args[0], params)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated", updated.ID)
	return nil
}

func (a *App) removeServer(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: servers rm <id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Delete usenet server "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.usenetServers.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", args[0])
	return nil
}

// pingServer probes a stored server. The backend uses the stored
// credentials when only an id is given.
func (a *App) pingServer(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: servers ping <id>")
		return nil
	}
	result, err := a.usenetServers.Ping(ctx, services.PingUsenetServerParams{ID: args[0]})
	if err != nil {
		return err
	}
	if result.Success {
		fmt.Fprintln(a.out, "ok:", orDash(result.Message))
	} else {
		fmt.Fprintln(a.out, "failed:", orDash(result.Message))
	}
	return nil
}
