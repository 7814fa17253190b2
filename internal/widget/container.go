package widget

import (
	"fmt"

	"github.com/wcatz/widget-canvas/internal/geom"
)

// NavBarHeight is the height of the container navigation bar. The prev and
// next arrows are NavBarHeight squares at either end of the bar.
const NavBarHeight = 28.0

// Container owns an ordered list of children and shows one at a time.
// Children live in the container's content coordinate space: their geometry
// is always {0, 0, width, height - NavBarHeight}.
type Container struct {
	base
	children []Widget
	active   int
}

// NewContainer creates a container. Children are normalized to the content
// area and the first child becomes active.
func NewContainer(id, label string, r geom.Rect, children []Widget) *Container {
	c := &Container{base: base{id: id, label: label, bounds: r}, active: -1}
	for _, ch := range children {
		c.AddChild(ch)
	}
	return c
}

func (w *Container) Kind() Kind { return KindContainer }

// ContentRect returns the content area in the container's own coordinate
// space, which is the geometry every child is given.
func (w *Container) ContentRect() geom.Rect {
	return geom.Rect{Width: w.bounds.Width, Height: max(w.bounds.Height-NavBarHeight, 0)}
}

// ContentOffset is the canvas position of the content area origin.
func (w *Container) ContentOffset() geom.Point {
	return geom.Point{X: w.bounds.X, Y: w.bounds.Y + NavBarHeight}
}

// Children returns the children in order.
func (w *Container) Children() []Widget {
	return append([]Widget(nil), w.children...)
}

// ActiveIndex returns the index of the visible child, or -1 when empty.
func (w *Container) ActiveIndex() int { return w.active }

// Active returns the visible child.
func (w *Container) Active() (Widget, bool) {
	if w.active < 0 || w.active >= len(w.children) {
		return nil, false
	}
	return w.children[w.active], true
}

// SetActive moves to index i, clamped to the child range.
func (w *Container) SetActive(i int) {
	if len(w.children) == 0 {
		w.active = -1
		return
	}
	w.active = max(0, min(i, len(w.children)-1))
}

// AddChild appends ch with its geometry overwritten to the content area.
func (w *Container) AddChild(ch Widget) {
	w.children = append(w.children, ch.WithBounds(w.ContentRect()))
	if w.active < 0 {
		w.active = 0
	}
}

// RemoveChild drops the child with the given id, searching nested
// containers too.
func (w *Container) RemoveChild(id string) bool {
	for i, ch := range w.children {
		if ch.ID() == id {
			w.children = append(w.children[:i:i], w.children[i+1:]...)
			w.SetActive(w.active)
			return true
		}
		if nested, ok := ch.(*Container); ok {
			cp := nested.clone()
			if cp.RemoveChild(id) {
				w.children[i] = cp
				return true
			}
		}
	}
	return false
}

// Find returns the descendant with the given id.
func (w *Container) Find(id string) (Widget, bool) {
	for _, ch := range w.children {
		if ch.ID() == id {
			return ch, true
		}
		if nested, ok := ch.(*Container); ok {
			if found, ok := nested.Find(id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// Next shows the following child. It does nothing on the last child.
func (w *Container) Next() bool {
	if w.active < 0 || w.active >= len(w.children)-1 {
		return false
	}
	w.active++
	return true
}

// Prev shows the preceding child. It does nothing on the first child.
func (w *Container) Prev() bool {
	if w.active <= 0 {
		return false
	}
	w.active--
	return true
}

func (w *Container) prevRect() geom.Rect {
	return geom.Rect{X: w.bounds.X, Y: w.bounds.Y, Width: NavBarHeight, Height: NavBarHeight}
}

func (w *Container) nextRect() geom.Rect {
	return geom.Rect{X: w.bounds.Right() - NavBarHeight, Y: w.bounds.Y, Width: NavBarHeight, Height: NavBarHeight}
}

// HandleClick tests the navigation arrows first. Otherwise the point is
// translated into the content space and passed to the active child when it
// handles clicks.
func (w *Container) HandleClick(x, y float64) bool {
	if !w.IsHit(x, y) {
		return false
	}
	if geom.PointInRect(x, y, w.prevRect()) {
		return w.Prev()
	}
	if geom.PointInRect(x, y, w.nextRect()) {
		return w.Next()
	}
	child, ok := w.Active()
	if !ok {
		return false
	}
	clicker, ok := child.(Clicker)
	if !ok {
		return false
	}
	off := w.ContentOffset()
	return clicker.HandleClick(x-off.X, y-off.Y)
}

func (w *Container) Draw(dc DrawContext) {
	dc.FillRect(w.bounds, dc.Theme.Background)
	dc.StrokeRect(w.bounds, dc.Theme.Border, 1)
	bar := geom.Rect{X: w.bounds.X, Y: w.bounds.Y, Width: w.bounds.Width, Height: NavBarHeight}
	dc.FillRect(bar, dc.Theme.Header)
	dc.Text(geom.Point{X: w.prevRect().X + 10, Y: bar.Y + 18}, "<", dc.Theme.Text)
	dc.Text(geom.Point{X: w.nextRect().X + 10, Y: bar.Y + 18}, ">", dc.Theme.Text)

	title := w.label
	if len(w.children) > 0 {
		title = fmt.Sprintf("%s %d/%d", w.label, w.active+1, len(w.children))
	}
	dc.Text(geom.Point{X: bar.X + NavBarHeight + 6, Y: bar.Y + 18}, title, dc.Theme.Text)

	if child, ok := w.Active(); ok {
		off := w.ContentOffset()
		child.Draw(dc.Translate(off.X, off.Y))
	}
}

// WithBounds resizes the container and renormalizes every child to the new
// content area.
func (w *Container) WithBounds(r geom.Rect) Widget {
	c := w.clone()
	c.bounds = r
	content := c.ContentRect()
	for i, ch := range c.children {
		c.children[i] = ch.WithBounds(content)
	}
	return c
}

func (w *Container) Clone() Widget { return w.clone() }

func (w *Container) clone() *Container {
	c := &Container{base: w.base, active: w.active, children: make([]Widget, len(w.children))}
	for i, ch := range w.children {
		c.children[i] = ch.Clone()
	}
	return c
}

func (w *Container) Payload() map[string]interface{} {
	return map[string]interface{}{
		"children":    Records(w.children),
		"activeIndex": w.active,
	}
}
