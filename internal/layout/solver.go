// Package layout finds collision-free rectangles on the canvas: the toolbar
// placement search and the adaptive drop search used while dragging.
package layout

import (
	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/widget"
)

// Solver searches for free space on a canvas of fixed size.
type Solver struct {
	Canvas  geom.Size
	Snapper geom.Snapper
	MinSize float64
	// MaxSize caps dropped widget sizes. Zero means the canvas bound.
	MaxSize float64
}

// NewSolver creates a solver for the given canvas and grid unit.
func NewSolver(canvas geom.Size, gridUnit, minSize, maxSize float64) *Solver {
	return &Solver{
		Canvas:  canvas,
		Snapper: geom.NewSnapper(gridUnit),
		MinSize: minSize,
		MaxSize: maxSize,
	}
}

func (s *Solver) step() float64 {
	if s.Snapper.Unit > 0 {
		return s.Snapper.Unit
	}
	return 1
}

// Place scans candidate origins row-major in grid steps starting at (0, 0)
// and returns the first one where a rectangle of the given size collides
// with none of widgets. When the canvas has no free slot it returns (0, 0),
// which may overlap.
func (s *Solver) Place(size geom.Size, widgets []widget.Widget) geom.Point {
	step := s.step()
	for y := 0.0; y+size.Height <= s.Canvas.Height; y += step {
		for x := 0.0; x+size.Width <= s.Canvas.Width; x += step {
			candidate := geom.Rect{X: x, Y: y, Width: size.Width, Height: size.Height}
			if !geom.AnyCollision(candidate, widgets, "") {
				return geom.Point{X: x, Y: y}
			}
		}
	}
	return geom.Point{}
}
