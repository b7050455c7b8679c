package cli

import (
	"fmt"
	"io"
	"net/http"

	"github.com/stremthru/dashctl/internal/client/api"
	"github.com/stremthru/dashctl/internal/client/config"
	"github.com/stremthru/dashctl/internal/client/table"
	"github.com/stremthru/dashctl/internal/common"
)

// viewState classifies a finished read for rendering. Exactly one state
// applies: error wins over empty, empty over ready.
type viewState int

const (
	stateReady viewState = iota
	stateEmpty
	stateError
)

func viewStateFor(err error, count int) viewState {
	switch {
	case err != nil:
		return stateError
	case count == 0:
		return stateEmpty
	default:
		return stateReady
	}
}

// printError renders every line the backend reported. Field-level messages
// keep their location prefix. Auth and not-found statuses collapse to their
// sentinel messages.
func (a *App) printError(err error) {
	switch {
	case api.IsStatus(err, http.StatusUnauthorized):
		fmt.Fprintf(a.out, "error: %s (try 'signin')\n", common.ErrUnauthorized)
	case api.IsStatus(err, http.StatusNotFound):
		fmt.Fprintln(a.out, "error:", common.ErrNotFound)
	default:
		for _, msg := range api.ErrorMessages(err) {
			fmt.Fprintln(a.out, "error:", msg)
		}
	}
}

// renderList is the shared screen skeleton: errors and the empty state
// short-circuit, otherwise the table is rendered.
func renderList[T any](w io.Writer, tbl *table.Table[T], err error) {
	switch viewStateFor(err, tbl.Len()) {
	case stateError:
		for _, msg := range api.ErrorMessages(err) {
			fmt.Fprintln(w, "error:", msg)
		}
	case stateEmpty:
		fmt.Fprintln(w, tbl.EmptyText)
	default:
		if rerr := tbl.Render(w); rerr != nil {
			fmt.Fprintln(w, "error:", rerr)
		}
	}
}

// themeMarker decorates the prompt per theme. ThemeSystem stays plain and
// leaves the choice to the terminal.
func themeMarker(theme string) string {
	switch theme {
	case config.ThemeDark:
		return "◆"
	case config.ThemeLight:
		return "◇"
	default:
		return ""
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
