package geom

// PointInRect reports whether (px, py) lies within r. Both edges are
// inclusive on each axis.
func PointInRect(px, py float64, r Rect) bool {
	return px >= r.X && px <= r.Right() && py >= r.Y && py <= r.Bottom()
}

// IsResizeHandle reports whether (px, py) lies in the handleSize square
// anchored at the bottom-right corner of r.
func IsResizeHandle(px, py float64, r Rect, handleSize float64) bool {
	handle := Rect{
		X:      r.Right() - handleSize,
		Y:      r.Bottom() - handleSize,
		Width:  handleSize,
		Height: handleSize,
	}
	return PointInRect(px, py, handle)
}

// HandleRect returns the resize-handle square for r.
func HandleRect(r Rect, handleSize float64) Rect {
	return Rect{X: r.Right() - handleSize, Y: r.Bottom() - handleSize, Width: handleSize, Height: handleSize}
}
