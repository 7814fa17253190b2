// Package render draws a scene onto a widget.Surface and provides a raster
// surface that encodes to PNG.
package render

import (
	"image/color"
	"log/slog"

	"github.com/wcatz/widget-canvas/internal/config"
	"github.com/wcatz/widget-canvas/internal/editor"
	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/layout"
	"github.com/wcatz/widget-canvas/internal/widget"
)

// Overlay colours for edit-mode affordances.
var (
	previewFreeFill  = color.RGBA{115, 191, 105, 90}
	previewFreeEdge  = color.RGBA{55, 135, 45, 255}
	previewSwapEdge  = color.RGBA{250, 222, 42, 255}
	previewBlockEdge = color.RGBA{242, 73, 92, 255}
)

const (
	selectionWidth = 2.0
	swapEdgeWidth  = 3.0
)

// Renderer draws scenes with a fixed theme.
type Renderer struct {
	Theme      widget.Theme
	HandleSize float64
}

// NewRenderer creates a renderer.
func NewRenderer(theme widget.Theme, handleSize float64) *Renderer {
	return &Renderer{Theme: theme, HandleSize: handleSize}
}

// Draw paints the canvas background and every root widget in z-order. In
// edit mode it then overlays resize handles, the selection outline and the
// drop preview of a drag in progress. ctrl may be nil.
func (r *Renderer) Draw(s widget.Surface, scene *editor.Scene, ctrl *editor.Controller, editMode bool) {
	canvas := scene.Canvas()
	s.FillRect(geom.Rect{Width: canvas.Width, Height: canvas.Height}, r.Theme.Background)

	dc := widget.NewDrawContext(s, r.Theme)
	widgets := scene.Widgets()
	for _, w := range widgets {
		w.Draw(dc)
	}
	if !editMode {
		return
	}

	for _, w := range widgets {
		r.drawHandle(s, geom.HandleRect(w.Bounds(), r.HandleSize))
	}
	if ctrl == nil {
		return
	}
	if id, ok := ctrl.Selection(); ok {
		if w, ok := scene.Find(id); ok {
			s.StrokeRect(w.Bounds(), r.Theme.Accent, selectionWidth)
		}
	}
	if p, ok := ctrl.Preview(); ok {
		r.drawPreview(s, p)
	}
}

// drawHandle draws the resize glyph: a small square with two diagonal grip
// lines.
func (r *Renderer) drawHandle(s widget.Surface, h geom.Rect) {
	s.FillRect(h, r.Theme.Header)
	s.StrokeRect(h, r.Theme.Border, 1)
	s.Line(geom.Point{X: h.X + 2, Y: h.Bottom() - 1}, geom.Point{X: h.Right() - 1, Y: h.Y + 2}, r.Theme.Border, 1)
	s.Line(geom.Point{X: h.X + h.Width/2, Y: h.Bottom() - 1}, geom.Point{X: h.Right() - 1, Y: h.Y + h.Height/2}, r.Theme.Border, 1)
}

func (r *Renderer) drawPreview(s widget.Surface, p layout.Preview) {
	switch p.Kind {
	case layout.PreviewFree:
		s.FillRect(p.Rect, previewFreeFill)
		s.StrokeRect(p.Rect, previewFreeEdge, 1)
	case layout.PreviewSwap, layout.PreviewAbsorb:
		s.StrokeRect(p.Rect, previewSwapEdge, swapEdgeWidth)
	case layout.PreviewCollision:
		s.StrokeRect(p.Rect, previewBlockEdge, 1)
	}
}

// ThemeFromConfig builds a theme from the configured roles. Roles that do
// not resolve to a colour keep the default.
func ThemeFromConfig(cfg *config.Config, logger *slog.Logger) widget.Theme {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	th := widget.DefaultTheme()
	roles := []struct {
		name  string
		value string
		dst   *color.Color
	}{
		{"background", cfg.Theme.Background, &th.Background},
		{"border", cfg.Theme.Border, &th.Border},
		{"text", cfg.Theme.Text, &th.Text},
		{"header", cfg.Theme.Header, &th.Header},
		{"accent", cfg.Theme.Accent, &th.Accent},
	}
	for _, role := range roles {
		if role.value == "" {
			continue
		}
		c, ok := cfg.Color(role.value)
		if !ok {
			logger.Warn("unresolved theme colour, using default", "role", role.name, "value", role.value)
			continue
		}
		*role.dst = c
	}

	if len(cfg.Theme.Series) > 0 {
		series := make([]color.Color, 0, len(cfg.Theme.Series))
		for _, v := range cfg.Theme.Series {
			c, ok := cfg.Color(v)
			if !ok {
				logger.Warn("unresolved series colour, skipping", "value", v)
				continue
			}
			series = append(series, c)
		}
		if len(series) > 0 {
			th.Series = series
		}
	}
	return th
}
