package widget

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wcatz/widget-canvas/internal/geom"
)

// Operator is a filter comparison.
type Operator string

const (
	OpEq       Operator = "="
	OpNe       Operator = "!="
	OpGt       Operator = ">"
	OpLt       Operator = "<"
	OpContains Operator = "contains"
)

// ParseOperator validates an operator string.
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(s); op {
	case OpEq, OpNe, OpGt, OpLt, OpContains:
		return op, nil
	}
	return "", fmt.Errorf("unknown filter operator %q", s)
}

// Predicate is a single column test.
type Predicate struct {
	Column   string   `json:"column" yaml:"column"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value" yaml:"value"`
}

// Row is a record keyed by column name.
type Row map[string]string

// Match reports whether row satisfies the predicate. A missing column reads
// as the empty string. > and < compare numerically when both sides parse as
// numbers and lexicographically otherwise.
func (p Predicate) Match(row Row) bool {
	cell := row[p.Column]
	switch p.Operator {
	case OpEq:
		return cell == p.Value
	case OpNe:
		return cell != p.Value
	case OpContains:
		return strings.Contains(cell, p.Value)
	case OpGt, OpLt:
		cmp := compareCells(cell, p.Value)
		if p.Operator == OpGt {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func compareCells(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Column, p.Operator, p.Value)
}

// Filter holds an ordered list of predicates, at most one per column.
type Filter struct {
	base
	predicates []Predicate
}

// NewFilter creates a filter. Later predicates for a column replace earlier
// ones.
func NewFilter(id, label string, r geom.Rect, predicates []Predicate) *Filter {
	f := &Filter{base: base{id: id, label: label, bounds: r}}
	for _, p := range predicates {
		f.SetOption(p)
	}
	return f
}

func (w *Filter) Kind() Kind { return KindFilter }

// Predicates returns the predicates in order.
func (w *Filter) Predicates() []Predicate {
	return append([]Predicate(nil), w.predicates...)
}

// SetOption inserts p, or replaces the predicate already set for its column
// in place.
func (w *Filter) SetOption(p Predicate) {
	for i, existing := range w.predicates {
		if existing.Column == p.Column {
			w.predicates[i] = p
			return
		}
	}
	w.predicates = append(w.predicates, p)
}

// RemoveOption drops the predicate for column. It reports whether one was
// removed.
func (w *Filter) RemoveOption(column string) bool {
	for i, existing := range w.predicates {
		if existing.Column == column {
			w.predicates = append(w.predicates[:i:i], w.predicates[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyFilter returns the rows that satisfy every predicate. With no
// predicates all rows are returned.
func (w *Filter) ApplyFilter(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if w.matches(row) {
			out = append(out, row)
		}
	}
	return out
}

func (w *Filter) matches(row Row) bool {
	for _, p := range w.predicates {
		if !p.Match(row) {
			return false
		}
	}
	return true
}

// optionRect is the line for the i-th predicate inside the filter body.
func (w *Filter) optionRect(i int) geom.Rect {
	return geom.Rect{X: w.bounds.X, Y: w.bounds.Y + HeaderHeight*float64(i+1), Width: w.bounds.Width, Height: HeaderHeight}
}

// removeRect is the clickable square at the right end of a predicate line.
func (w *Filter) removeRect(i int) geom.Rect {
	line := w.optionRect(i)
	return geom.Rect{X: line.Right() - HeaderHeight, Y: line.Y, Width: HeaderHeight, Height: HeaderHeight}
}

// HandleClick removes the predicate whose remove zone contains (x, y).
func (w *Filter) HandleClick(x, y float64) bool {
	for i, p := range w.predicates {
		if geom.PointInRect(x, y, w.removeRect(i)) {
			return w.RemoveOption(p.Column)
		}
	}
	return false
}

func (w *Filter) Draw(dc DrawContext) {
	w.drawFrame(dc)
	for i, p := range w.predicates {
		line := w.optionRect(i)
		if line.Bottom() > w.bounds.Bottom() {
			break
		}
		dc.Text(geom.Point{X: line.X + 6, Y: line.Y + 16}, p.String(), dc.Theme.Text)
		rm := w.removeRect(i).Inset(6)
		dc.Line(geom.Point{X: rm.X, Y: rm.Y}, geom.Point{X: rm.Right(), Y: rm.Bottom()}, dc.Theme.Border, 1)
		dc.Line(geom.Point{X: rm.Right(), Y: rm.Y}, geom.Point{X: rm.X, Y: rm.Bottom()}, dc.Theme.Border, 1)
	}
}

func (w *Filter) WithBounds(r geom.Rect) Widget {
	c := w.clone()
	c.bounds = r
	return c
}

func (w *Filter) Clone() Widget { return w.clone() }

func (w *Filter) clone() *Filter {
	return &Filter{base: w.base, predicates: w.Predicates()}
}

func (w *Filter) Payload() map[string]interface{} {
	preds := make([]interface{}, len(w.predicates))
	for i, p := range w.predicates {
		preds[i] = map[string]interface{}{
			"column":   p.Column,
			"operator": string(p.Operator),
			"value":    p.Value,
		}
	}
	return map[string]interface{}{"predicates": preds}
}
