package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stremthru/dashctl/internal/client/services"
	"github.com/stremthru/dashctl/internal/client/table"
)

func (a *App) torrentsScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: torrents <imdbid>")
		return nil
	}
	items, err := a.torrents.Search(ctx, args[0])
	tbl := table.New(
		table.Column[services.Torrent]{Title: "HASH", Pinned: true, Value: func(t services.Torrent) string { return shortHash(t.Hash) }},
		table.Column[services.Torrent]{Title: "NAME", Value: func(t services.Torrent) string { return t.Name }},
		table.Column[services.Torrent]{Title: "SIZE", Value: func(t services.Torrent) string { return t.Size }},
		table.Column[services.Torrent]{Title: "SEEDERS", Value: func(t services.Torrent) string { return strconv.Itoa(t.Seeders) }},
		table.Column[services.Torrent]{Title: "PRIVATE", Value: func(t services.Torrent) string { return yesNo(t.Private) }},
	)
	tbl.EmptyText = "no torrents cached for this title"
	tbl.SetRows(items)
	renderList(a.out, tbl, err)
	return nil
}

// reviewScreen selects torrents of a title and flags them for curator
// review with a shared reason.
func (a *App) reviewScreen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: review <imdbid>")
		return nil
	}
	imdbID := args[0]
	items, err := a.torrents.Search(ctx, imdbID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "no torrents cached for this title")
		return nil
	}

	tbl := table.New(
		table.Column[services.Torrent]{Title: "HASH", Pinned: true, Value: func(t services.Torrent) string { return shortHash(t.Hash) }},
		table.Column[services.Torrent]{Title: "NAME", Value: func(t services.Torrent) string { return t.Name }},
	)
	tbl.Selectable = true
	tbl.SetRows(items)

	// selection loop: toggle rows by number, "all", empty line to finish
	for {
		if err := tbl.Render(a.out); err != nil {
			return err
		}
		answer, err := getSimpleText(a.reader, "Toggle row number, 'all', or empty to continue", a.out)
		if err != nil {
			return err
		}
		if answer == "" {
			break
		}
		if answer == "all" {
			tbl.ToggleAll()
			continue
		}
		idx, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(a.out, "enter a row number")
			continue
		}
		tbl.Toggle(idx - 1)
	}
	if tbl.SelectedCount() == 0 {
		fmt.Fprintln(a.out, "nothing selected")
		return nil
	}

	reason, err := GetOptionalText(a.reader,
		"Reason (fake_torrent, incomplete_season_pack, wrong_mapping, wrong_title, other)",
		services.ReviewReasonOther, a.out)
	if err != nil {
		return err
	}
	comment, err := getSimpleText(a.reader, "Comment (optional)", a.out)
	if err != nil {
		return err
	}

	review := make([]services.TorrentReviewItem, 0, tbl.SelectedCount())
	for _, t := range tbl.Selected() {
		review = append(review, services.TorrentReviewItem{
			Hash:    t.Hash,
			IMDBID:  imdbID,
			Reason:  reason,
			Comment: comment,
		})
	}
	if err := a.torrents.RequestReview(ctx, review); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "flagged %d torrent(s)\n", len(review))
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
