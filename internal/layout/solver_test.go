package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/widget"
)

func newTestSolver() *Solver {
	return NewSolver(geom.Size{Width: 1200, Height: 800}, 20, 20, 0)
}

func rect(id string, x, y, w, h float64) widget.Widget {
	return widget.NewRect(id, "", geom.NewRect(x, y, w, h))
}

func TestPlaceEmptyCanvas(t *testing.T) {
	s := newTestSolver()
	p := s.Place(geom.Size{Width: 100, Height: 100}, nil)
	assert.Equal(t, geom.Point{}, p)
}

func TestPlaceRowMajor(t *testing.T) {
	s := newTestSolver()
	ws := []widget.Widget{rect("a", 0, 0, 100, 100)}

	p := s.Place(geom.Size{Width: 100, Height: 100}, ws)
	assert.Equal(t, geom.Point{X: 100, Y: 0}, p)

	ws = append(ws, rect("b", 100, 0, 1100, 40))
	p = s.Place(geom.Size{Width: 100, Height: 100}, ws)
	assert.Equal(t, geom.Point{X: 100, Y: 40}, p)
}

func TestPlaceFullCanvasFallsBack(t *testing.T) {
	s := NewSolver(geom.Size{Width: 200, Height: 200}, 20, 20, 0)
	ws := []widget.Widget{rect("a", 0, 0, 200, 200)}
	assert.Equal(t, geom.Point{}, s.Place(geom.Size{Width: 100, Height: 100}, ws))

	// larger than the canvas
	assert.Equal(t, geom.Point{}, s.Place(geom.Size{Width: 300, Height: 100}, nil))
}

func TestPlacedWidgetsNeverOverlap(t *testing.T) {
	s := newTestSolver()
	var ws []widget.Widget
	sizes := []geom.Size{{Width: 100, Height: 100}, {Width: 300, Height: 200}, {Width: 240, Height: 120}, {Width: 400, Height: 240}}
	for i := 0; i < 12; i++ {
		size := sizes[i%len(sizes)]
		p := s.Place(size, ws)
		candidate := geom.Rect{X: p.X, Y: p.Y, Width: size.Width, Height: size.Height}
		require.False(t, geom.AnyCollision(candidate, ws, ""), "placement %d overlaps", i)
		ws = append(ws, widget.NewRect(string(rune('a'+i)), "", candidate))
	}
}

func TestDropFreeSpace(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 0, 0, 100, 100)

	p := s.Drop(DropRequest{
		Dragged: a,
		Pointer: geom.Point{X: 205, Y: 305},
		Grab:    geom.Point{X: 5, Y: 5},
		Widgets: []widget.Widget{a},
	})
	assert.Equal(t, PreviewFree, p.Kind)
	assert.Equal(t, geom.NewRect(200, 300, 100, 100), p.Rect)
	assert.True(t, p.Committable())
}

func TestDropSnapsOrigin(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 0, 0, 100, 100)

	p := s.Drop(DropRequest{Dragged: a, Pointer: geom.Point{X: 213, Y: 327}, Widgets: []widget.Widget{a}})
	assert.Equal(t, PreviewFree, p.Kind)
	assert.Equal(t, geom.NewRect(220, 320, 100, 100), p.Rect)
}

func TestDropShrinksToRightNeighbour(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 0, 400, 160, 100)
	b := rect("b", 300, 0, 100, 400)

	p := s.Drop(DropRequest{
		Dragged: a,
		Pointer: geom.Point{X: 200, Y: 0},
		Widgets: []widget.Widget{a, b},
	})
	require.Equal(t, PreviewFree, p.Kind)
	assert.Equal(t, geom.NewRect(200, 0, 100, 100), p.Rect)
	assert.False(t, geom.Overlaps(p.Rect, b.Bounds()))
}

func TestDropLeftNeighbourPushesRight(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 600, 600, 100, 100)
	b := rect("b", 0, 0, 300, 110)

	// pointer on b's bottom edge, so not inside it; the grab offset lifts the
	// candidate into b's vertical span
	p := s.Drop(DropRequest{
		Dragged: a,
		Pointer: geom.Point{X: 50, Y: 110},
		Grab:    geom.Point{X: 0, Y: 20},
		Widgets: []widget.Widget{a, b},
	})
	require.Equal(t, PreviewFree, p.Kind)
	assert.Equal(t, geom.NewRect(300, 100, 100, 100), p.Rect)
	assert.False(t, geom.Overlaps(p.Rect, b.Bounds()))
}

func TestDropAboveNeighbourBoundsTop(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 600, 600, 100, 100)
	b := rect("b", 0, 0, 300, 110)

	p := s.Drop(DropRequest{
		Dragged: a,
		Pointer: geom.Point{X: 50, Y: 110},
		Widgets: []widget.Widget{a, b},
	})
	require.Equal(t, PreviewFree, p.Kind)
	assert.Equal(t, geom.NewRect(60, 120, 100, 100), p.Rect)
	assert.False(t, geom.Overlaps(p.Rect, b.Bounds()))
}

func TestDropSwapTarget(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 0, 0, 100, 100)
	b := rect("b", 400, 400, 200, 100)

	p := s.Drop(DropRequest{Dragged: a, Pointer: geom.Point{X: 450, Y: 450}, Widgets: []widget.Widget{a, b}})
	assert.Equal(t, PreviewSwap, p.Kind)
	assert.Equal(t, "b", p.TargetID)
	assert.Equal(t, b.Bounds(), p.Rect)
}

func TestDropTopmostTargetWins(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 0, 0, 100, 100)
	low := rect("low", 400, 400, 200, 200)
	high := rect("high", 450, 450, 50, 50)

	p := s.Drop(DropRequest{Dragged: a, Pointer: geom.Point{X: 470, Y: 470}, Widgets: []widget.Widget{a, low, high}})
	assert.Equal(t, "high", p.TargetID)
}

func TestDropAbsorbIntoContainer(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 0, 0, 100, 100)
	c := widget.NewContainer("c", "", geom.NewRect(400, 400, 300, 300), nil)

	p := s.Drop(DropRequest{Dragged: a, Pointer: geom.Point{X: 500, Y: 500}, Widgets: []widget.Widget{a, c}})
	assert.Equal(t, PreviewAbsorb, p.Kind)
	assert.Equal(t, "c", p.TargetID)

	// containers swap with containers instead of nesting
	d := widget.NewContainer("d", "", geom.NewRect(0, 0, 100, 100), nil)
	p = s.Drop(DropRequest{Dragged: d, Pointer: geom.Point{X: 500, Y: 500}, Widgets: []widget.Widget{d, c}})
	assert.Equal(t, PreviewSwap, p.Kind)
}

func TestDropCollisionFallsBack(t *testing.T) {
	s := NewSolver(geom.Size{Width: 400, Height: 200}, 20, 20, 0)
	left := rect("left", 0, 0, 100, 200)
	right := rect("right", 110, 0, 100, 200)
	a := rect("a", 300, 0, 100, 100)

	// the 10px gap between left and right cannot hold a minimum-size widget
	p := s.Drop(DropRequest{Dragged: a, Pointer: geom.Point{X: 105, Y: 50}, Widgets: []widget.Widget{left, right, a}})
	assert.Equal(t, PreviewCollision, p.Kind)
	assert.Equal(t, a.Bounds(), p.Rect)
	assert.False(t, p.Committable())
}

func TestDropClampsToMaxSize(t *testing.T) {
	s := NewSolver(geom.Size{Width: 1200, Height: 800}, 20, 20, 200)
	a := rect("a", 0, 0, 500, 500)

	p := s.Drop(DropRequest{Dragged: a, Pointer: geom.Point{X: 600, Y: 100}, Widgets: []widget.Widget{a}})
	require.Equal(t, PreviewFree, p.Kind)
	assert.Equal(t, 200.0, p.Rect.Width)
	assert.Equal(t, 200.0, p.Rect.Height)
}

func TestDropStaysOnCanvas(t *testing.T) {
	s := newTestSolver()
	a := rect("a", 0, 0, 100, 100)

	p := s.Drop(DropRequest{Dragged: a, Pointer: geom.Point{X: 1190, Y: 790}, Widgets: []widget.Widget{a}})
	require.Equal(t, PreviewFree, p.Kind)
	assert.LessOrEqual(t, p.Rect.Right(), 1200.0)
	assert.LessOrEqual(t, p.Rect.Bottom(), 800.0)
	assert.GreaterOrEqual(t, p.Rect.Width, 20.0)
}
