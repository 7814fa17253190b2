// Package widget implements the canvas widget model: the Widget capability
// contract, its variants, the factory that builds them and the flat
// serialized form of a scene.
package widget

import "github.com/wcatz/widget-canvas/internal/geom"

// Kind is the type tag that selects a widget variant.
type Kind string

const (
	KindRect      Kind = "rect"
	KindBarChart  Kind = "barChart"
	KindLineChart Kind = "lineChart"
	KindPieChart  Kind = "pieChart"
	KindTable     Kind = "table"
	KindFilter    Kind = "filter"
	KindContainer Kind = "container"
)

// Kinds lists every known variant in toolbar order.
var Kinds = []Kind{KindRect, KindBarChart, KindLineChart, KindPieChart, KindTable, KindFilter, KindContainer}

// Widget is a positioned, drawable element of a scene.
//
// Widgets are treated as values: WithBounds and Clone return new widgets and
// never modify the receiver. Mutating methods on the concrete variants are
// only applied to clones.
type Widget interface {
	ID() string
	Kind() Kind
	Label() string
	Bounds() geom.Rect
	// IsHit reports whether (x, y) lies within the bounding rectangle.
	IsHit(x, y float64) bool
	Draw(dc DrawContext)
	// WithBounds returns a copy of the widget with new geometry.
	WithBounds(r geom.Rect) Widget
	Clone() Widget
	// Payload returns the variant-specific fields in serialized form.
	Payload() map[string]interface{}
}

// Clicker is implemented by widgets that react to clicks regardless of edit
// mode. HandleClick reports whether the widget state changed.
type Clicker interface {
	HandleClick(x, y float64) bool
}

type base struct {
	id     string
	label  string
	bounds geom.Rect
}

func (b *base) ID() string        { return b.id }
func (b *base) Label() string     { return b.label }
func (b *base) Bounds() geom.Rect { return b.bounds }

func (b *base) IsHit(x, y float64) bool {
	return geom.PointInRect(x, y, b.bounds)
}

// drawFrame paints the background, border and label shared by every variant.
func (b *base) drawFrame(dc DrawContext) {
	dc.FillRect(b.bounds, dc.Theme.Background)
	dc.StrokeRect(b.bounds, dc.Theme.Border, 1)
	if b.label != "" {
		dc.Text(geom.Point{X: b.bounds.X + 6, Y: b.bounds.Y + 14}, b.label, dc.Theme.Text)
	}
}

// Rect is a plain labelled box.
type Rect struct {
	base
}

// NewRect creates a Rect widget.
func NewRect(id, label string, r geom.Rect) *Rect {
	return &Rect{base: base{id: id, label: label, bounds: r}}
}

func (w *Rect) Kind() Kind { return KindRect }

func (w *Rect) Draw(dc DrawContext) {
	w.drawFrame(dc)
}

func (w *Rect) WithBounds(r geom.Rect) Widget {
	c := *w
	c.bounds = r
	return &c
}

func (w *Rect) Clone() Widget {
	c := *w
	return &c
}

func (w *Rect) Payload() map[string]interface{} {
	return map[string]interface{}{}
}
