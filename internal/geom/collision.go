package geom

// Boxed is anything with an identity and a bounding rectangle.
type Boxed interface {
	ID() string
	Bounds() Rect
}

// Overlaps reports whether a and b share any area. Rectangles that only touch
// along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	if a.Right() <= b.X || b.Right() <= a.X {
		return false
	}
	if a.Bottom() <= b.Y || b.Bottom() <= a.Y {
		return false
	}
	return true
}

// AnyCollision reports whether candidate overlaps any item other than the one
// with excludeID.
func AnyCollision[T Boxed](candidate Rect, items []T, excludeID string) bool {
	for _, it := range items {
		if it.ID() == excludeID {
			continue
		}
		if Overlaps(candidate, it.Bounds()) {
			return true
		}
	}
	return false
}
