// Package editor owns the widget collection of a canvas and the pointer
// state machine that drags, resizes, swaps and nests widgets.
package editor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/layout"
	"github.com/wcatz/widget-canvas/internal/widget"
)

// Geometry fields accepted by EditField.
const (
	FieldX      = "x"
	FieldY      = "y"
	FieldWidth  = "width"
	FieldHeight = "height"
)

// Config configures a Scene.
type Config struct {
	Factory *widget.Factory
	Solver  *layout.Solver
	// Logger is optional, uses discard if nil.
	Logger *slog.Logger
}

// Scene is the single owner of the widget collection. The collection is
// never modified in place: every mutation builds a new slice and bumps the
// version, which is what the renderer watches.
type Scene struct {
	factory *widget.Factory
	solver  *layout.Solver
	logger  *slog.Logger

	widgets []widget.Widget
	version uint64
	panelID string
}

// NewScene creates an empty scene.
func NewScene(cfg Config) *Scene {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scene{factory: cfg.Factory, solver: cfg.Solver, logger: logger}
}

// Widgets returns the root collection in z-order, topmost last.
func (s *Scene) Widgets() []widget.Widget {
	return append([]widget.Widget(nil), s.widgets...)
}

// Len returns the number of root widgets.
func (s *Scene) Len() int { return len(s.widgets) }

// Version increases on every committed mutation.
func (s *Scene) Version() uint64 { return s.version }

// Canvas returns the canvas size.
func (s *Scene) Canvas() geom.Size { return s.solver.Canvas }

// Solver returns the free-space solver bound to the canvas.
func (s *Scene) Solver() *layout.Solver { return s.solver }

// Factory returns the widget factory.
func (s *Scene) Factory() *widget.Factory { return s.factory }

// Replace swaps in a new collection. An open edit panel whose widget is gone
// is closed.
func (s *Scene) Replace(ws []widget.Widget) {
	s.commit(append([]widget.Widget(nil), ws...))
}

func (s *Scene) commit(next []widget.Widget) {
	s.widgets = next
	s.version++
	if s.panelID != "" {
		if _, ok := s.Find(s.panelID); !ok {
			s.logger.Debug("closing edit panel", "id", s.panelID)
			s.panelID = ""
		}
	}
}

func (s *Scene) index(id string) int {
	for i, w := range s.widgets {
		if w.ID() == id {
			return i
		}
	}
	return -1
}

// Find returns the widget with the given id, searching container children.
func (s *Scene) Find(id string) (widget.Widget, bool) {
	for _, w := range s.widgets {
		if w.ID() == id {
			return w, true
		}
		if c, ok := w.(*widget.Container); ok {
			if found, ok := c.Find(id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// TopmostAt returns the root widget hit at (x, y), searching from the top of
// the z-order down.
func (s *Scene) TopmostAt(x, y float64) (widget.Widget, bool) {
	for i := len(s.widgets) - 1; i >= 0; i-- {
		if s.widgets[i].IsHit(x, y) {
			return s.widgets[i], true
		}
	}
	return nil, false
}

// Add appends w on top of the z-order at its own geometry. It fails when w or
// any of its children uses an id that is already taken.
func (s *Scene) Add(w widget.Widget) bool {
	taken := s.idSet()
	for _, id := range widget.IDs(w) {
		if taken[id] {
			s.logger.Debug("duplicate widget id", "id", id)
			return false
		}
		taken[id] = true
	}
	s.commit(append(s.Widgets(), w))
	return true
}

// idSet returns every id in the scene, container children included.
func (s *Scene) idSet() map[string]bool {
	ids := make(map[string]bool)
	for _, w := range s.widgets {
		for _, id := range widget.IDs(w) {
			ids[id] = true
		}
	}
	return ids
}

// AddFromToolbar creates a widget of the given kind at its default size and
// places it with the placement search. Unknown kinds add nothing.
func (s *Scene) AddFromToolbar(kind widget.Kind, props map[string]interface{}) (widget.Widget, bool) {
	return s.AddPlaced(kind, s.factory.DefaultSize(kind), props)
}

// AddPlaced creates a widget of the given kind and size at the first free
// grid position. Missing or taken ids, including those of nested children,
// are replaced by fresh ones.
func (s *Scene) AddPlaced(kind widget.Kind, size geom.Size, props map[string]interface{}) (widget.Widget, bool) {
	if !widget.Known(kind) {
		s.logger.Debug("ignoring unknown widget kind", "kind", kind)
		return nil, false
	}
	props = widget.UniqueRecord(props, s.idSet(), s.factory.IDGen)

	origin := s.solver.Place(size, s.widgets)
	w, ok := s.factory.Create(kind, geom.Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}, props)
	if !ok {
		return nil, false
	}
	s.commit(append(s.Widgets(), w))
	s.logger.Debug("widget added", "id", w.ID(), "kind", kind, "x", origin.X, "y", origin.Y)
	return w, true
}

// Delete removes a root widget or a container child. Deleting the widget
// shown in the edit panel closes the panel.
func (s *Scene) Delete(id string) bool {
	if i := s.index(id); i >= 0 {
		next := s.Widgets()
		next = append(next[:i], next[i+1:]...)
		s.commit(next)
		s.logger.Debug("widget deleted", "id", id)
		return true
	}
	for i, w := range s.widgets {
		c, ok := w.(*widget.Container)
		if !ok {
			continue
		}
		cp := c.Clone().(*widget.Container)
		if cp.RemoveChild(id) {
			next := s.Widgets()
			next[i] = cp
			s.commit(next)
			s.logger.Debug("child deleted", "id", id, "container", c.ID())
			return true
		}
	}
	return false
}

// EditField sets one geometry field of a root widget from raw text input.
// Non-numeric or negative input, sizes below the minimum, geometry leaving
// the canvas and geometry colliding with another widget are all discarded
// and the prior geometry is kept.
func (s *Scene) EditField(id, field, raw string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		s.logger.Debug("discarding field input", "id", id, "field", field, "input", raw)
		return false
	}

	r := s.widgets[i].Bounds()
	switch field {
	case FieldX:
		r.X = v
	case FieldY:
		r.Y = v
	case FieldWidth, FieldHeight:
		if v < s.minExtent() {
			s.logger.Debug("discarding size below minimum", "id", id, "field", field, "value", v)
			return false
		}
		if field == FieldWidth {
			r.Width = v
		} else {
			r.Height = v
		}
	default:
		return false
	}

	canvas := s.Canvas()
	if r.Right() > canvas.Width || r.Bottom() > canvas.Height {
		s.logger.Debug("discarding geometry outside canvas", "id", id, "field", field, "value", v)
		return false
	}
	if geom.AnyCollision(r, s.widgets, id) {
		s.logger.Debug("discarding colliding geometry", "id", id, "field", field, "value", v)
		return false
	}
	return s.setBounds(id, r)
}

func (s *Scene) minExtent() float64 {
	return max(s.solver.Snapper.Unit, s.solver.MinSize)
}

// OpenPanel opens the edit panel for a widget.
func (s *Scene) OpenPanel(id string) bool {
	if _, ok := s.Find(id); !ok {
		return false
	}
	s.panelID = id
	return true
}

// ClosePanel closes the edit panel.
func (s *Scene) ClosePanel() {
	s.panelID = ""
}

// Panel returns the id of the widget in the edit panel.
func (s *Scene) Panel() (string, bool) {
	return s.panelID, s.panelID != ""
}

// Click delivers a click to the root widget with the given id when it
// handles clicks. The click is applied to a clone which replaces the
// original only when its state changed.
func (s *Scene) Click(id string, x, y float64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	cp := s.widgets[i].Clone()
	clicker, ok := cp.(widget.Clicker)
	if !ok || !clicker.HandleClick(x, y) {
		return false
	}
	next := s.Widgets()
	next[i] = cp
	s.commit(next)
	s.logger.Debug("widget clicked", "id", id, "kind", cp.Kind())
	return true
}

func (s *Scene) setBounds(id string, r geom.Rect) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	if s.widgets[i].Bounds() == r {
		return false
	}
	next := s.Widgets()
	next[i] = next[i].WithBounds(r)
	s.commit(next)
	return true
}

// swap exchanges the geometry of two root widgets. The set of occupied
// rectangles is unchanged, so a collision-free scene stays collision-free.
func (s *Scene) swap(aID, bID string) bool {
	ai, bi := s.index(aID), s.index(bID)
	if ai < 0 || bi < 0 || ai == bi {
		return false
	}
	ar, br := s.widgets[ai].Bounds(), s.widgets[bi].Bounds()
	next := s.Widgets()
	next[ai] = next[ai].WithBounds(br)
	next[bi] = next[bi].WithBounds(ar)
	s.commit(next)
	return true
}

// absorb moves a root widget into a root container as its last child.
func (s *Scene) absorb(childID, containerID string) bool {
	ci, ti := s.index(childID), s.index(containerID)
	if ci < 0 || ti < 0 || ci == ti {
		return false
	}
	child := s.widgets[ci]
	c, ok := s.widgets[ti].(*widget.Container)
	if !ok || child.Kind() == widget.KindContainer {
		return false
	}
	cp := c.Clone().(*widget.Container)
	cp.AddChild(child)

	next := make([]widget.Widget, 0, len(s.widgets)-1)
	for i, w := range s.widgets {
		switch i {
		case ci:
			continue
		case ti:
			next = append(next, cp)
		default:
			next = append(next, w)
		}
	}
	s.commit(next)
	return true
}

// Load replaces the scene with a serialized widget list. Entries of unknown
// type are skipped.
func (s *Scene) Load(data []byte) error {
	var recs []map[string]interface{}
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("parsing scene: %w", err)
	}
	ws := widget.FromRecords(recs, s.factory)
	if skipped := len(recs) - len(ws); skipped > 0 {
		s.logger.Warn("skipped widgets of unknown type", "count", skipped)
	}
	s.panelID = ""
	s.commit(ws)
	s.logger.Debug("scene loaded", "widgets", len(ws))
	return nil
}

// Save serializes the root collection.
func (s *Scene) Save() ([]byte, error) {
	return widget.Marshal(s.widgets)
}
