package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremthru/dashctl/internal/client/table"
)

func TestViewStateFor(t *testing.T) {
	assert.Equal(t, stateError, viewStateFor(errors.New("boom"), 3))
	assert.Equal(t, stateError, viewStateFor(errors.New("boom"), 0))
	assert.Equal(t, stateEmpty, viewStateFor(nil, 0))
	assert.Equal(t, stateReady, viewStateFor(nil, 1))
}

func TestRenderListStates(t *testing.T) {
	newTable := func() *table.Table[string] {
		tbl := table.New(table.Column[string]{Title: "NAME", Value: func(s string) string { return s }})
		tbl.EmptyText = "nothing to show"
		return tbl
	}

	t.Run("error wins over rows", func(t *testing.T) {
		tbl := newTable()
		tbl.SetRows([]string{"a"})
		var out strings.Builder
		renderList(&out, tbl, errors.New("backend down"))
		assert.Contains(t, out.String(), "error: backend down")
		assert.NotContains(t, out.String(), "NAME")
	})

	t.Run("empty state", func(t *testing.T) {
		tbl := newTable()
		var out strings.Builder
		renderList(&out, tbl, nil)
		assert.Equal(t, "nothing to show\n", out.String())
	})

	t.Run("ready renders the table", func(t *testing.T) {
		tbl := newTable()
		tbl.SetRows([]string{"a", "b"})
		var out strings.Builder
		renderList(&out, tbl, nil)
		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "NAME")
	})
}

func TestThemeMarker(t *testing.T) {
	assert.Equal(t, "◆", themeMarker("dark"))
	assert.Equal(t, "◇", themeMarker("light"))
	assert.Equal(t, "", themeMarker("system"))
}

func TestOrDashAndYesNo(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}
