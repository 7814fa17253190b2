package editor

import (
	"fmt"
	"log/slog"

	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/layout"
)

// State is the pointer interaction state.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	}
	return "idle"
}

// Controller turns pointer events into scene mutations. Edit mode is passed
// with every pointer-down; without it the controller only delivers clicks.
type Controller struct {
	scene      *Scene
	handleSize float64
	logger     *slog.Logger

	state    State
	activeID string
	selected string
	origin   geom.Rect
	grab     geom.Point
	last     geom.Point
	preview  layout.Preview
}

// NewController creates a controller for scene. handleSize is the side of
// the resize handle square at each widget's bottom-right corner.
func NewController(scene *Scene, handleSize float64, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{scene: scene, handleSize: handleSize, logger: logger}
}

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// Selection returns the id of the selected widget.
func (c *Controller) Selection() (string, bool) {
	return c.selected, c.selected != ""
}

// Preview returns the drop preview of the drag in progress.
func (c *Controller) Preview() (layout.Preview, bool) {
	if c.state != StateDragging || c.preview.Kind == layout.PreviewNone {
		return layout.Preview{}, false
	}
	return c.preview, true
}

// HandleSize returns the resize handle side length.
func (c *Controller) HandleSize() float64 { return c.handleSize }

// PointerDown hit-tests the root widgets from the top. The hit widget gets
// the click first. In edit mode a press on its resize handle starts a
// resize and any other press starts a drag.
func (c *Controller) PointerDown(x, y float64, editMode bool) {
	if c.state != StateIdle {
		c.Cancel()
	}
	c.last = geom.Point{X: x, Y: y}

	w, ok := c.scene.TopmostAt(x, y)
	if !ok {
		c.selected = ""
		return
	}
	c.scene.Click(w.ID(), x, y)
	if !editMode {
		c.selected = ""
		return
	}

	b := w.Bounds()
	c.activeID = w.ID()
	c.selected = w.ID()
	c.origin = b
	c.preview = layout.Preview{}
	if geom.IsResizeHandle(x, y, b, c.handleSize) {
		c.state = StateResizing
	} else {
		c.state = StateDragging
		c.grab = geom.Point{X: x - b.X, Y: y - b.Y}
	}
	c.logger.Debug("pointer down", "id", c.activeID, "state", c.state)
}

// PointerMove resizes live while resizing and recomputes the drop preview
// while dragging.
func (c *Controller) PointerMove(x, y float64) {
	c.last = geom.Point{X: x, Y: y}
	switch c.state {
	case StateResizing:
		c.resizeTo(x, y)
	case StateDragging:
		c.updatePreview(x, y)
	}
}

func (c *Controller) resizeTo(x, y float64) {
	idx := c.scene.index(c.activeID)
	if idx < 0 {
		c.reset()
		return
	}
	b := c.scene.widgets[idx].Bounds()
	canvas := c.scene.Canvas()
	minSize := c.scene.solver.MinSize
	r := geom.Rect{
		X:      b.X,
		Y:      b.Y,
		Width:  geom.Clamp(x-b.X, minSize, canvas.Width-b.X),
		Height: geom.Clamp(y-b.Y, minSize, canvas.Height-b.Y),
	}
	if geom.AnyCollision(r, c.scene.widgets, c.activeID) {
		return
	}
	c.scene.setBounds(c.activeID, r)
}

func (c *Controller) updatePreview(x, y float64) {
	idx := c.scene.index(c.activeID)
	if idx < 0 {
		c.reset()
		return
	}
	c.preview = c.scene.solver.Drop(layout.DropRequest{
		Dragged: c.scene.widgets[idx],
		Pointer: geom.Point{X: x, Y: y},
		Grab:    c.grab,
		Widgets: c.scene.widgets,
	})
}

// PointerUp commits the interaction in progress. A release away from the
// last known pointer position is treated as a final move first.
func (c *Controller) PointerUp(x, y float64) {
	if c.state == StateIdle {
		return
	}
	if (geom.Point{X: x, Y: y}) != c.last {
		c.PointerMove(x, y)
	}

	switch c.state {
	case StateResizing:
		c.commitResize()
	case StateDragging:
		c.commitDrop()
	}
	c.reset()
}

// commitResize snaps the live size to the grid. Rounding is tried first,
// then flooring, and the live size stays when both collide.
func (c *Controller) commitResize() {
	idx := c.scene.index(c.activeID)
	if idx < 0 {
		return
	}
	b := c.scene.widgets[idx].Bounds()
	snap := c.scene.solver.Snapper
	minSize := c.scene.solver.MinSize
	canvas := c.scene.Canvas()

	fits := func(r geom.Rect) bool {
		return r.Right() <= canvas.Width && r.Bottom() <= canvas.Height &&
			!geom.AnyCollision(r, c.scene.widgets, c.activeID)
	}
	for _, round := range []func(float64) float64{snap.Snap, snap.Floor} {
		r := geom.Rect{X: b.X, Y: b.Y, Width: max(round(b.Width), minSize), Height: max(round(b.Height), minSize)}
		if fits(r) {
			c.scene.setBounds(c.activeID, r)
			c.logger.Debug("resize committed", "id", c.activeID, "width", r.Width, "height", r.Height)
			return
		}
	}
	c.logger.Debug("resize kept unsnapped", "id", c.activeID)
}

func (c *Controller) commitDrop() {
	p := c.preview
	var ok bool
	switch p.Kind {
	case layout.PreviewAbsorb:
		ok = c.scene.absorb(c.activeID, p.TargetID)
		if ok {
			c.selected = ""
		}
	case layout.PreviewSwap:
		ok = c.scene.swap(c.activeID, p.TargetID)
	case layout.PreviewFree:
		if !geom.AnyCollision(p.Rect, c.scene.widgets, c.activeID) {
			ok = c.scene.setBounds(c.activeID, p.Rect)
		}
	}
	c.logger.Debug("drop", "id", c.activeID, "preview", p.Kind, "target", p.TargetID, "committed", ok)
}

// PointerLeave aborts a drag or resize without committing a drop or a resize
// snap. Live resize steps are already in the scene, so they are rolled back
// to the geometry the widget had at pointer-down, which bumps the version
// once more.
func (c *Controller) PointerLeave() {
	c.Cancel()
}

// Cancel returns to idle without committing.
func (c *Controller) Cancel() {
	if c.state == StateResizing {
		if idx := c.scene.index(c.activeID); idx >= 0 && c.scene.widgets[idx].Bounds() != c.origin {
			c.scene.setBounds(c.activeID, c.origin)
		}
	}
	if c.state != StateIdle {
		c.logger.Debug("interaction aborted", "id", c.activeID, "state", c.state)
	}
	c.reset()
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.activeID = ""
	c.preview = layout.Preview{}
	c.grab = geom.Point{}
}

// Pointer event types accepted by Dispatch.
const (
	EventDown  = "down"
	EventMove  = "move"
	EventUp    = "up"
	EventLeave = "leave"
)

// PointerEvent is a pointer event in serialized form.
type PointerEvent struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Dispatch routes ev to the matching handler. editMode only affects
// pointer-down.
func (c *Controller) Dispatch(ev PointerEvent, editMode bool) error {
	switch ev.Type {
	case EventDown:
		c.PointerDown(ev.X, ev.Y, editMode)
	case EventMove:
		c.PointerMove(ev.X, ev.Y)
	case EventUp:
		c.PointerUp(ev.X, ev.Y)
	case EventLeave:
		c.PointerLeave()
	default:
		return fmt.Errorf("unknown pointer event type '%s'", ev.Type)
	}
	return nil
}
