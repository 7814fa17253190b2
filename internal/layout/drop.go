package layout

import (
	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/widget"
)

// PreviewKind classifies a drop preview.
type PreviewKind int

const (
	PreviewNone PreviewKind = iota
	// PreviewFree is a collision-free placement for the dragged widget.
	PreviewFree
	// PreviewSwap exchanges geometry with the target widget.
	PreviewSwap
	// PreviewAbsorb moves the dragged widget into the target container.
	PreviewAbsorb
	// PreviewCollision marks a drop that cannot be committed. Rect holds the
	// dragged widget's original geometry.
	PreviewCollision
)

func (k PreviewKind) String() string {
	switch k {
	case PreviewFree:
		return "free"
	case PreviewSwap:
		return "swap"
	case PreviewAbsorb:
		return "absorb"
	case PreviewCollision:
		return "collision"
	}
	return "none"
}

// Preview is the advisory result of a drop search.
type Preview struct {
	Kind     PreviewKind
	Rect     geom.Rect
	TargetID string
}

// Committable reports whether a pointer-up should apply the preview.
func (p Preview) Committable() bool {
	return p.Kind == PreviewFree || p.Kind == PreviewSwap || p.Kind == PreviewAbsorb
}

// DropRequest describes a drag in progress.
type DropRequest struct {
	Dragged widget.Widget
	// Pointer is the drop point in canvas coordinates.
	Pointer geom.Point
	// Grab is the pointer offset inside the dragged widget at pointer-down.
	Grab geom.Point
	// Widgets is the root collection in z-order. It may include Dragged.
	Widgets []widget.Widget
}

// Drop runs the adaptive drop search. A drop point strictly inside another
// widget makes it a swap target, or an absorbing container when the dragged
// widget is not itself a container. Otherwise the candidate rectangle at the
// pointer is bounded by the nearest neighbours on each axis, snapped to the
// grid and shrunk one grid unit at a time until it is free. If no free
// rectangle remains the preview is a collision holding the original geometry.
func (s *Solver) Drop(req DropRequest) Preview {
	dragged := req.Dragged
	others := make([]widget.Widget, 0, len(req.Widgets))
	for _, w := range req.Widgets {
		if w.ID() != dragged.ID() {
			others = append(others, w)
		}
	}

	if target, ok := targetAt(req.Pointer, others); ok {
		kind := PreviewSwap
		if target.Kind() == widget.KindContainer && dragged.Kind() != widget.KindContainer {
			kind = PreviewAbsorb
		}
		return Preview{Kind: kind, Rect: target.Bounds(), TargetID: target.ID()}
	}

	candidate, ok := s.freeRect(req, others)
	if !ok {
		return Preview{Kind: PreviewCollision, Rect: dragged.Bounds()}
	}
	return Preview{Kind: PreviewFree, Rect: candidate}
}

// targetAt returns the topmost widget whose interior contains p.
func targetAt(p geom.Point, widgets []widget.Widget) (widget.Widget, bool) {
	for i := len(widgets) - 1; i >= 0; i-- {
		if widgets[i].Bounds().Interior(p.X, p.Y) {
			return widgets[i], true
		}
	}
	return nil, false
}

func (s *Solver) maxSize(bound float64) float64 {
	if s.MaxSize > 0 && s.MaxSize < bound {
		return s.MaxSize
	}
	return bound
}

func (s *Solver) freeRect(req DropRequest, others []widget.Widget) (geom.Rect, bool) {
	size := req.Dragged.Bounds().Size()
	start := geom.Point{
		X: geom.Clamp(req.Pointer.X-req.Grab.X, 0, s.Canvas.Width-s.MinSize),
		Y: geom.Clamp(req.Pointer.Y-req.Grab.Y, 0, s.Canvas.Height-s.MinSize),
	}

	// Horizontal limits from widgets sharing the vertical span.
	minLeft, maxRight := 0.0, s.Canvas.Width
	for _, o := range others {
		b := o.Bounds()
		if b.Bottom() <= start.Y || b.Y >= start.Y+size.Height {
			continue
		}
		if b.X >= start.X {
			maxRight = min(maxRight, b.X)
		} else {
			minLeft = max(minLeft, b.Right())
		}
	}
	x := max(start.X, minLeft)
	w := min(size.Width, maxRight-x)

	// Vertical limits from widgets sharing the narrowed horizontal span.
	minTop, maxBottom := 0.0, s.Canvas.Height
	for _, o := range others {
		b := o.Bounds()
		if b.Right() <= x || b.X >= x+w {
			continue
		}
		if b.Y >= start.Y {
			maxBottom = min(maxBottom, b.Y)
		} else {
			minTop = max(minTop, b.Bottom())
		}
	}
	y := max(start.Y, minTop)
	h := min(size.Height, maxBottom-y)

	snap := s.Snapper
	cx := snap.Snap(x)
	if cx < minLeft {
		cx = snap.Ceil(minLeft)
	}
	cy := snap.Snap(y)
	if cy < minTop {
		cy = snap.Ceil(minTop)
	}
	cw := geom.Clamp(snap.Snap(w), s.MinSize, s.maxSize(s.Canvas.Width))
	ch := geom.Clamp(snap.Snap(h), s.MinSize, s.maxSize(s.Canvas.Height))
	if cx+cw > s.Canvas.Width {
		cw = max(snap.Floor(s.Canvas.Width-cx), s.MinSize)
	}
	if cy+ch > s.Canvas.Height {
		ch = max(snap.Floor(s.Canvas.Height-cy), s.MinSize)
	}

	candidate := geom.Rect{X: cx, Y: cy, Width: cw, Height: ch}
	step := s.step()
	for geom.AnyCollision(candidate, others, "") {
		shrunk := false
		if candidate.Width-step >= s.MinSize {
			candidate.Width -= step
			shrunk = true
			if !geom.AnyCollision(candidate, others, "") {
				break
			}
		}
		if candidate.Height-step >= s.MinSize {
			candidate.Height -= step
			shrunk = true
		}
		if !shrunk {
			return geom.Rect{}, false
		}
	}
	if candidate.Right() > s.Canvas.Width || candidate.Bottom() > s.Canvas.Height {
		return geom.Rect{}, false
	}
	return candidate, true
}
