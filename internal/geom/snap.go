package geom

import "math"

// Snapper rounds coordinates to a grid unit.
type Snapper struct {
	Unit float64
}

// NewSnapper creates a snapper for the given grid unit.
func NewSnapper(unit float64) Snapper {
	return Snapper{Unit: unit}
}

// Snap rounds v to the nearest multiple of the grid unit. A non-positive unit
// disables snapping.
func (s Snapper) Snap(v float64) float64 {
	if s.Unit <= 0 {
		return v
	}
	return math.Round(v/s.Unit) * s.Unit
}

// Floor rounds v down to a multiple of the grid unit.
func (s Snapper) Floor(v float64) float64 {
	if s.Unit <= 0 {
		return v
	}
	return math.Floor(v/s.Unit) * s.Unit
}

// Ceil rounds v up to a multiple of the grid unit.
func (s Snapper) Ceil(v float64) float64 {
	if s.Unit <= 0 {
		return v
	}
	return math.Ceil(v/s.Unit) * s.Unit
}

// SnapRect snaps every field of r.
func (s Snapper) SnapRect(r Rect) Rect {
	return Rect{X: s.Snap(r.X), Y: s.Snap(r.Y), Width: s.Snap(r.Width), Height: s.Snap(r.Height)}
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
