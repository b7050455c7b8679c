package cli

import (
	"context"
	"fmt"

	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

func (a *App) queueScreen(ctx context.Context, args []string) error {
	if len(args) >= 2 && args[0] == "rm" {
		return a.removeQueueItem(ctx, args[1])
	}
	if len(args) > 0 {
		fmt.Fprintln(a.out, "Usage: queue [rm <id>]")
		return nil
	}

	items, err := a.nzbQueue.List(ctx)
	tbl := table.New(
		table.Column[services.NzbQueueItem]{Title: "ID", Pinned: true, Value: func(i services.NzbQueueItem) string { return i.ID }},
		table.Column[services.NzbQueueItem]{Title: "NAME", Value: func(i services.NzbQueueItem) string { return i.Name }},
		table.Column[services.NzbQueueItem]{Title: "STATUS", Value: func(i services.NzbQueueItem) string { return i.Status }},
		table.Column[services.NzbQueueItem]{Title: "CATEGORY", Value: func(i services.NzbQueueItem) string { return orDash(i.Category) }},
		table.Column[services.NzbQueueItem]{Title: "ERROR", Value: func(i services.NzbQueueItem) string { return orDash(i.Error) }},
	)
	tbl.EmptyText = "queue is empty"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) removeQueueItem(ctx context.Context, id string) error {
	ok, err := Confirm(a.reader, "Remove queue item "+id+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.nzbQueue.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "removed", id)
	return nil
}
