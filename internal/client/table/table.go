// Package table renders resource collections as aligned text tables with
// optional row selection and pinned columns.
package table

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Column maps one attribute of a row to a rendered cell.
type Column[T any] struct {
	Title string
	// Pinned columns render first, before a visual boundary separating
	// them from the scrollable ones.
	Pinned bool
	Value  func(row T) string
}

// Table holds rows of one resource type plus selection state. Selection is
// positional and reset whenever the rows are replaced.
type Table[T any] struct {
	columns  []Column[T]
	rows     []T
	selected map[int]struct{}

	// EmptyText is shown instead of the header when there are no rows.
	EmptyText string
	// Selectable adds a checkbox column and enables the selection methods.
	Selectable bool
}

func New[T any](columns ...Column[T]) *Table[T] {
	return &Table[T]{
		columns:   columns,
		selected:  map[int]struct{}{},
		EmptyText: "nothing here yet",
	}
}

// SetRows replaces the contents and clears the selection.
func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
	t.selected = map[int]struct{}{}
}

func (t *Table[T]) Rows() []T { return t.rows }

func (t *Table[T]) Len() int { return len(t.rows) }

// Toggle flips the selection of one row. Out-of-range indexes are ignored.
func (t *Table[T]) Toggle(index int) {
	if !t.Selectable || index < 0 || index >= len(t.rows) {
		return
	}
	if _, ok := t.selected[index]; ok {
		delete(t.selected, index)
	} else {
		t.selected[index] = struct{}{}
	}
}

// ToggleAll selects every row, or clears the selection when every row is
// already selected. With a partial selection it selects the rest, matching
// the indeterminate-checkbox convention.
func (t *Table[T]) ToggleAll() {
	if !t.Selectable {
		return
	}
	if t.AllSelected() && len(t.rows) > 0 {
		t.selected = map[int]struct{}{}
		return
	}
	for i := range t.rows {
		t.selected[i] = struct{}{}
	}
}

func (t *Table[T]) AllSelected() bool {
	return len(t.rows) > 0 && len(t.selected) == len(t.rows)
}

// Indeterminate reports a partial selection: some rows but not all.
func (t *Table[T]) Indeterminate() bool {
	return len(t.selected) > 0 && len(t.selected) < len(t.rows)
}

func (t *Table[T]) SelectedCount() int { return len(t.selected) }

// Selected returns the selected rows in display order.
func (t *Table[T]) Selected() []T {
	indexes := make([]int, 0, len(t.selected))
	for i := range t.selected {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	out := make([]T, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, t.rows[i])
	}
	return out
}

// Render writes the table. Pinned columns come first, separated from the
// rest by a "|" boundary cell. An empty table renders only EmptyText.
func (t *Table[T]) Render(w io.Writer) error {
	if len(t.rows) == 0 {
		_, err := fmt.Fprintln(w, t.EmptyText)
		return err
	}

	pinned, rest := t.splitColumns()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}

	writeRow(t.headerCells(pinned, rest))
	for i, row := range t.rows {
		writeRow(t.rowCells(i, row, pinned, rest))
	}
	return tw.Flush()
}

func (t *Table[T]) splitColumns() (pinned, rest []Column[T]) {
	for _, col := range t.columns {
		if col.Pinned {
			pinned = append(pinned, col)
		} else {
			rest = append(rest, col)
		}
	}
	return pinned, rest
}

func (t *Table[T]) headerCells(pinned, rest []Column[T]) []string {
	var cells []string
	if t.Selectable {
		switch {
		case t.AllSelected():
			cells = append(cells, "[x]")
		case t.Indeterminate():
			cells = append(cells, "[-]")
		default:
			cells = append(cells, "[ ]")
		}
	}
	for _, col := range pinned {
		cells = append(cells, col.Title)
	}
	if len(pinned) > 0 && len(rest) > 0 {
		cells = append(cells, "|")
	}
	for _, col := range rest {
		cells = append(cells, col.Title)
	}
	return cells
}

func (t *Table[T]) rowCells(index int, row T, pinned, rest []Column[T]) []string {
	var cells []string
	if t.Selectable {
		if _, ok := t.selected[index]; ok {
			cells = append(cells, "[x]")
		} else {
			cells = append(cells, "[ ]")
		}
	}
	for _, col := range pinned {
		cells = append(cells, col.Value(row))
	}
	if len(pinned) > 0 && len(rest) > 0 {
		cells = append(cells, "|")
	}
	for _, col := range rest {
		cells = append(cells, col.Value(row))
	}
	return cells
}
