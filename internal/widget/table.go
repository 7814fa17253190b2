package widget

import (
	"sort"

	"github.com/wcatz/widget-canvas/internal/geom"
)

// HeaderHeight is the height of the table header row and of each body row.
const HeaderHeight = 24.0

// Table shows a row matrix under a header row. Clicking a header cell sorts
// the rows by that column.
type Table struct {
	base
	columns       []string
	rows          [][]string
	sortColumn    int
	sortAscending bool
}

// NewTable creates a table. Rows are padded or truncated to the header
// length.
func NewTable(id, label string, r geom.Rect, columns []string, rows [][]string) *Table {
	t := &Table{
		base:       base{id: id, label: label, bounds: r},
		columns:    append([]string(nil), columns...),
		sortColumn: -1,
	}
	t.rows = make([][]string, len(rows))
	for i, row := range rows {
		norm := make([]string, len(columns))
		copy(norm, row)
		t.rows[i] = norm
	}
	return t
}

func (w *Table) Kind() Kind { return KindTable }

// Columns returns the column headers.
func (w *Table) Columns() []string { return append([]string(nil), w.columns...) }

// Rows returns a copy of the row matrix in display order.
func (w *Table) Rows() [][]string {
	out := make([][]string, len(w.rows))
	for i, row := range w.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// SortColumn returns the active sort column, if any.
func (w *Table) SortColumn() (int, bool) {
	return w.sortColumn, w.sortColumn >= 0
}

// SortAscending reports the sort direction.
func (w *Table) SortAscending() bool { return w.sortAscending }

// SetSort sorts by column col in the given direction. Out-of-range columns
// clear the sort without reordering rows.
func (w *Table) SetSort(col int, ascending bool) {
	if col < 0 || col >= len(w.columns) {
		w.sortColumn = -1
		return
	}
	w.sortColumn = col
	w.sortAscending = ascending
	w.sortRows()
}

// HandleClick toggles sorting when (x, y) falls in the header row. The first
// click on a column sorts ascending, a repeated click flips the direction.
func (w *Table) HandleClick(x, y float64) bool {
	if len(w.columns) == 0 || !w.IsHit(x, y) {
		return false
	}
	if y > w.bounds.Y+HeaderHeight {
		return false
	}
	col := w.columnAt(x)
	if col == w.sortColumn {
		w.sortAscending = !w.sortAscending
	} else {
		w.sortColumn = col
		w.sortAscending = true
	}
	w.sortRows()
	return true
}

func (w *Table) columnAt(x float64) int {
	colWidth := w.bounds.Width / float64(len(w.columns))
	col := int((x - w.bounds.X) / colWidth)
	if col >= len(w.columns) {
		col = len(w.columns) - 1
	}
	if col < 0 {
		col = 0
	}
	return col
}

func (w *Table) sortRows() {
	col, asc := w.sortColumn, w.sortAscending
	sort.SliceStable(w.rows, func(i, j int) bool {
		if asc {
			return w.rows[i][col] < w.rows[j][col]
		}
		return w.rows[i][col] > w.rows[j][col]
	})
}

func (w *Table) Draw(dc DrawContext) {
	dc.FillRect(w.bounds, dc.Theme.Background)
	dc.StrokeRect(w.bounds, dc.Theme.Border, 1)
	if len(w.columns) == 0 {
		return
	}
	header := geom.Rect{X: w.bounds.X, Y: w.bounds.Y, Width: w.bounds.Width, Height: HeaderHeight}
	dc.FillRect(header, dc.Theme.Header)
	colWidth := w.bounds.Width / float64(len(w.columns))
	for i, name := range w.columns {
		if i == w.sortColumn {
			if w.sortAscending {
				name += " ^"
			} else {
				name += " v"
			}
		}
		dc.Text(geom.Point{X: w.bounds.X + float64(i)*colWidth + 4, Y: w.bounds.Y + 16}, name, dc.Theme.Text)
	}
	for r, row := range w.rows {
		top := w.bounds.Y + HeaderHeight*float64(r+1)
		if top+HeaderHeight > w.bounds.Bottom() {
			break
		}
		dc.Line(geom.Point{X: w.bounds.X, Y: top}, geom.Point{X: w.bounds.Right(), Y: top}, dc.Theme.Border, 1)
		for i, cell := range row {
			dc.Text(geom.Point{X: w.bounds.X + float64(i)*colWidth + 4, Y: top + 16}, cell, dc.Theme.Text)
		}
	}
}

func (w *Table) WithBounds(r geom.Rect) Widget {
	c := w.clone()
	c.bounds = r
	return c
}

func (w *Table) Clone() Widget { return w.clone() }

func (w *Table) clone() *Table {
	c := *w
	c.columns = w.Columns()
	c.rows = w.Rows()
	return &c
}

func (w *Table) Payload() map[string]interface{} {
	columns := make([]interface{}, len(w.columns))
	for i, c := range w.columns {
		columns[i] = c
	}
	rows := make([]interface{}, len(w.rows))
	for i, row := range w.rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		rows[i] = cells
	}
	p := map[string]interface{}{
		"columns":       columns,
		"rows":          rows,
		"sortAscending": w.sortAscending,
	}
	if w.sortColumn >= 0 {
		p["sortColumn"] = w.sortColumn
	}
	return p
}
