package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/form"
	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

type rateLimitInput struct {
	Name   string `json:"name" validate:"required"`
	Limit  int    `json:"limit" validate:"required,min=1"`
	Window string `json:"window" validate:"required"`
}

func (a *App) rateLimitScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listRateLimits(ctx)
	}
	switch args[0] {
	case "add":
		return a.addRateLimit(ctx)
	case "edit":
		return a.editRateLimit(ctx, args[1:])
	case "rm":
		return a.removeRateLimit(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, "Usage: ratelimits [add|edit <id>|rm <id>]")
		return nil
	}
}

func (a *App) listRateLimits(ctx context.Context) error {
	items, err := a.rateLimits.List(ctx)
	tbl := table.New(
		table.Column[services.RateLimitConfig]{Title: "ID", Pinned: true, Value: func(c services.RateLimitConfig) string { return c.ID }},
		table.Column[services.RateLimitConfig]{Title: "NAME", Value: func(c services.RateLimitConfig) string { return c.Name }},
		table.Column[services.RateLimitConfig]{Title: "LIMIT", Value: func(c services.RateLimitConfig) string { return strconv.Itoa(c.Limit) }},
		table.Column[services.RateLimitConfig]{Title: "WINDOW", Value: func(c services.RateLimitConfig) string { return c.Window }},
	)
	tbl.EmptyText = "no rate limit configs"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) promptRateLimit(initial rateLimitInput) (*rateLimitInput, error) {
	name, err := GetOptionalText(a.reader, "Name", initial.Name, a.out)
	if err != nil {
		return nil, err
	}
	limitText, err := GetOptionalText(a.reader, "Limit (requests)", strconv.Itoa(initial.Limit), a.out)
	if err != nil {
		return nil, err
	}
	limit, err := strconv.Atoi(limitText)
	if err != nil {
		return nil, fmt.Errorf("limit must be a number: %w", err)
	}
	window, err := GetOptionalText(a.reader, "Window (e.g. 10s, 1m)", initial.Window, a.out)
	if err != nil {
		return nil, err
	}
	return &rateLimitInput{Name: name, Limit: limit, Window: window}, nil
}

func (a *App) addRateLimit(ctx context.Context) error {
	input, err := a.promptRateLimit(rateLimitInput{Limit: 1, Window: "1m"})
	if err != nil {
		return err
	}

	f := form.New[rateLimitInput]()
	f.Set(*input)
	err = f.Submit(ctx, func(ctx context.Context, v rateLimitInput) error {
		created, err := a.rateLimits.Create(ctx, services.RateLimitConfigParams{
			Name: v.Name, Limit: v.Limit, Window: v.Window,
		})
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

func (a *App) editRateLimit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: ratelimits edit <id>")
		return nil
	}
	current, err := a.rateLimits.ByID(ctx, args[0])
	if err != nil {
		return err
	}
	if current == nil {
		fmt.Fprintln(a.out, "no such config:", args[0])
		return nil
	}
	input, err := a.promptRateLimit(rateLimitInput{Name: current.Name, Limit: current.Limit, Window: current.Window})
	if err != nil {
		return err
	}
	updated, err := a.rateLimits.Update(ctx, current.ID, services.RateLimitConfigParams{
		Name: input.Name, Limit: input.Limit, Window: input.Window,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated", updated.ID)
	return nil
}

func (a *App) removeRateLimit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: ratelimits rm <id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Delete rate limit config "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.rateLimits.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", args[0])
	return nil
}

func (a *App) printFieldErrors(errs map[string]string) {
	for field, msg := range errs {
		if field == "" {
			fmt.Fprintln(a.out, "error:", msg)
		} else {
			fmt.Fprintf(a.out, "error: %s %s\n", field, msg)
		}
	}
}
