package widget

import (
	"image/color"

	"github.com/wcatz/widget-canvas/internal/geom"
)

// Surface is the drawing target. Coordinates are absolute canvas pixels.
type Surface interface {
	FillRect(r geom.Rect, c color.Color)
	StrokeRect(r geom.Rect, c color.Color, width float64)
	Line(a, b geom.Point, c color.Color, width float64)
	FillPolygon(pts []geom.Point, c color.Color)
	Text(p geom.Point, s string, c color.Color)
}

// Theme holds the colours widgets draw with.
type Theme struct {
	Background color.Color
	Border     color.Color
	Text       color.Color
	Header     color.Color
	Accent     color.Color
	Series     []color.Color
}

// DefaultTheme returns the built-in light theme.
func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{255, 255, 255, 255},
		Border:     color.RGBA{170, 170, 170, 255},
		Text:       color.RGBA{51, 51, 51, 255},
		Header:     color.RGBA{235, 238, 242, 255},
		Accent:     color.RGBA{87, 148, 242, 255},
		Series: []color.Color{
			color.RGBA{115, 191, 105, 255},
			color.RGBA{87, 148, 242, 255},
			color.RGBA{255, 152, 48, 255},
			color.RGBA{242, 73, 92, 255},
			color.RGBA{184, 119, 217, 255},
		},
	}
}

// SeriesColor returns the colour for the i-th data point, cycling through
// the theme series.
func (t Theme) SeriesColor(i int) color.Color {
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[i%len(t.Series)]
}

// DrawContext is passed to Widget.Draw. It carries the surface, the theme and
// the offset of the coordinate space the widget lives in, so nested
// containers can draw children with relative geometry.
type DrawContext struct {
	Surface Surface
	Theme   Theme
	Offset  geom.Point
}

// NewDrawContext creates a context drawing onto s at the canvas origin.
func NewDrawContext(s Surface, th Theme) DrawContext {
	return DrawContext{Surface: s, Theme: th}
}

// Translate returns a context whose origin is moved by (dx, dy).
func (dc DrawContext) Translate(dx, dy float64) DrawContext {
	dc.Offset = geom.Point{X: dc.Offset.X + dx, Y: dc.Offset.Y + dy}
	return dc
}

func (dc DrawContext) abs(p geom.Point) geom.Point {
	return geom.Point{X: p.X + dc.Offset.X, Y: p.Y + dc.Offset.Y}
}

func (dc DrawContext) FillRect(r geom.Rect, c color.Color) {
	dc.Surface.FillRect(r.Translate(dc.Offset.X, dc.Offset.Y), c)
}

func (dc DrawContext) StrokeRect(r geom.Rect, c color.Color, width float64) {
	dc.Surface.StrokeRect(r.Translate(dc.Offset.X, dc.Offset.Y), c, width)
}

func (dc DrawContext) Line(a, b geom.Point, c color.Color, width float64) {
	dc.Surface.Line(dc.abs(a), dc.abs(b), c, width)
}

func (dc DrawContext) FillPolygon(pts []geom.Point, c color.Color) {
	moved := make([]geom.Point, len(pts))
	for i, p := range pts {
		moved[i] = dc.abs(p)
	}
	dc.Surface.FillPolygon(moved, c)
}

func (dc DrawContext) Text(p geom.Point, s string, c color.Color) {
	dc.Surface.Text(dc.abs(p), s, c)
}
