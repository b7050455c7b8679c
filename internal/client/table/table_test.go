package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	Name string
	Host string
	Port string
}

func serverColumns() []Column[server] {
	return []Column[server]{
		{Title: "NAME", Pinned: true, Value: func(s server) string { return s.Name }},
		{Title: "HOST", Value: func(s server) string { return s.Host }},
		{Title: "PORT", Value: func(s server) string { return s.Port }},
	}
}

func TestRenderEmptyState(t *testing.T) {
	tbl := New(serverColumns()...)
	tbl.EmptyText = "no usenet servers configured"

	var buf strings.Builder
	require.NoError(t, tbl.Render(&buf))
	assert.Equal(t, "no usenet servers configured\n", buf.String())
}

func TestRenderPinnedBoundary(t *testing.T) {
	tbl := New(serverColumns()...)
	tbl.SetRows([]server{
		{Name: "primary", Host: "news.example", Port: "563"},
		{Name: "backup", Host: "news.backup.example", Port: "119"},
	})

	var buf strings.Builder
	require.NoError(t, tbl.Render(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Regexp(t, `^NAME\s+\|\s+HOST\s+PORT$`, lines[0])
	assert.Regexp(t, `^primary\s+\|\s+news\.example\s+563$`, lines[1])
	assert.Regexp(t, `^backup\s+\|\s+news\.backup\.example\s+119$`, lines[2])
}

func TestRenderWithoutPinnedColumnsHasNoBoundary(t *testing.T) {
	tbl := New(
		Column[server]{Title: "NAME", Value: func(s server) string { return s.Name }},
		Column[server]{Title: "HOST", Value: func(s server) string { return s.Host }},
	)
	tbl.SetRows([]server{{Name: "primary", Host: "news.example"}})

	var buf strings.Builder
	require.NoError(t, tbl.Render(&buf))
	assert.NotContains(t, buf.String(), "|")
}

func TestSelectionToggleAndToggleAll(t *testing.T) {
	tbl := New(serverColumns()...)
	tbl.Selectable = true
	tbl.SetRows([]server{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	tbl.Toggle(1)
	assert.True(t, tbl.Indeterminate())
	assert.False(t, tbl.AllSelected())
	require.Len(t, tbl.Selected(), 1)
	assert.Equal(t, "b", tbl.Selected()[0].Name)

	// with a partial selection, toggle-all completes it
	tbl.ToggleAll()
	assert.True(t, tbl.AllSelected())
	assert.False(t, tbl.Indeterminate())

	// with everything selected, toggle-all clears
	tbl.ToggleAll()
	assert.Equal(t, 0, tbl.SelectedCount())
}

func TestSelectionHeaderCheckboxStates(t *testing.T) {
	tbl := New(serverColumns()...)
	tbl.Selectable = true
	tbl.SetRows([]server{{Name: "a"}, {Name: "b"}})

	render := func() string {
		var buf strings.Builder
		require.NoError(t, tbl.Render(&buf))
		return buf.String()
	}

	assert.True(t, strings.HasPrefix(render(), "[ ]"))

	tbl.Toggle(0)
	assert.True(t, strings.HasPrefix(render(), "[-]"), "partial selection shows indeterminate header")

	tbl.Toggle(1)
	assert.True(t, strings.HasPrefix(render(), "[x]"))
}

func TestSetRowsClearsSelection(t *testing.T) {
	tbl := New(serverColumns()...)
	tbl.Selectable = true
	tbl.SetRows([]server{{Name: "a"}})
	tbl.Toggle(0)
	require.Equal(t, 1, tbl.SelectedCount())

	tbl.SetRows([]server{{Name: "a"}, {Name: "b"}})
	assert.Equal(t, 0, tbl.SelectedCount())
}

func TestToggleIgnoresOutOfRange(t *testing.T) {
	tbl := New(serverColumns()...)
	tbl.Selectable = true
	tbl.SetRows([]server{{Name: "a"}})

	tbl.Toggle(-1)
	tbl.Toggle(5)
	assert.Equal(t, 0, tbl.SelectedCount())
}

func TestSelectedReturnsDisplayOrder(t *testing.T) {
	tbl := New(serverColumns()...)
	tbl.Selectable = true
	tbl.SetRows([]server{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	tbl.Toggle(2)
	tbl.Toggle(0)
	selected := tbl.Selected()
	require.Len(t, selected, 2)
	assert.Equal(t, "a", selected[0].Name)
	assert.Equal(t, "c", selected[1].Name)
}
