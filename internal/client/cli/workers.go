package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

func (a *App) workersScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listWorkers(ctx)
	}
	switch args[0] {
	case "logs":
		return a.showWorkerLogs(ctx, args[1:])
	case "files":
		return a.showWorkerFiles(ctx, args[1:])
	case "rm-log":
		return a.removeWorkerLog(ctx, args[1:])
	case "purge-logs":
		return a.purgeWorkerLogs(ctx, args[1:])
	case "purge-files":
		return a.purgeWorkerFiles(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, "Usage: workers [logs <id>|files <id>|rm-log <id> <log-id>|purge-logs <id>|purge-files <id>]")
		return nil
	}
}

func (a *App) listWorkers(ctx context.Context) error {
	details, err := a.workers.Details(ctx)
	if err != nil {
		return err
	}

	rows := make([]services.WorkerDetail, 0, len(details))
	for _, d := range details {
		rows = append(rows, d)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	tbl := table.New(
		table.Column[services.WorkerDetail]{Title: "ID", Pinned: true, Value: func(w services.WorkerDetail) string { return w.ID }},
		table.Column[services.WorkerDetail]{Title: "TITLE", Value: func(w services.WorkerDetail) string { return w.Title }},
		table.Column[services.WorkerDetail]{Title: "INTERVAL", Value: func(w services.WorkerDetail) string { return strconv.Itoa(w.Interval) }},
		table.Column[services.WorkerDetail]{Title: "FAILED JOBS", Value: func(w services.WorkerDetail) string { return yesNo(w.HasFailedJob) }},
	)
	tbl.EmptyText = "no workers"
	tbl.SetRows(rows)
	renderList(a.out, tbl, nil)
	return nil
}

func (a *App) showWorkerLogs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: workers logs <id>")
		return nil
	}
	logs, err := a.workers.JobLogs(ctx, args[0])
	tbl := table.New(
		table.Column[services.WorkerJobLog]{Title: "ID", Pinned: true, Value: func(l services.WorkerJobLog) string { return l.ID }},
		table.Column[services.WorkerJobLog]{Title: "NAME", Value: func(l services.WorkerJobLog) string { return l.Name }},
		table.Column[services.WorkerJobLog]{Title: "STATUS", Value: func(l services.WorkerJobLog) string { return l.Status }},
		table.Column[services.WorkerJobLog]{Title: "ERROR", Value: func(l services.WorkerJobLog) string { return orDash(l.Error) }},
		table.Column[services.WorkerJobLog]{Title: "CREATED", Value: func(l services.WorkerJobLog) string { return l.CreatedAt }},
	)
	tbl.EmptyText = "no job logs"
	tbl.SetRows(logs)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) showWorkerFiles(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: workers files <id>")
		return nil
	}
	files, err := a.workers.TemporaryFiles(ctx, args[0])
	tbl := table.New(
		table.Column[services.WorkerTemporaryFile]{Title: "PATH", Pinned: true, Value: func(f services.WorkerTemporaryFile) string { return f.Path }},
		table.Column[services.WorkerTemporaryFile]{Title: "SIZE", Value: func(f services.WorkerTemporaryFile) string { return f.Size }},
		table.Column[services.WorkerTemporaryFile]{Title: "MODIFIED", Value: func(f services.WorkerTemporaryFile) string { return f.ModifiedAt }},
	)
	tbl.EmptyText = "no temporary files"
	tbl.SetRows(files)
	renderList(a.out, tbl, err)
	return nil
}

func (a *App) removeWorkerLog(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: workers rm-log <id> <log-id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Delete job log "+args[1]+" of worker "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.workers.DeleteJobLog(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", args[1])
	return nil
}

func (a *App) purgeWorkerLogs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: workers purge-logs <id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Delete every job log of "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.workers.PurgeJobLogs(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "purged")
	return nil
}

func (a *App) purgeWorkerFiles(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: workers purge-files <id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Delete every temporary file of "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.workers.PurgeTemporaryFiles(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "purged")
	return nil
}
