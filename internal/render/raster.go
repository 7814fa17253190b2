package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/wcatz/widget-canvas/internal/geom"
)

// FontSize is the label size in points at 72 DPI.
const FontSize = 12

// RasterSurface draws onto an RGBA image with the Go Regular font. Paths are
// anti-aliased by a vector rasterizer.
type RasterSurface struct {
	img  *image.RGBA
	face font.Face
	ras  *vector.Rasterizer
}

// NewRasterSurface creates a transparent surface of the given pixel size.
func NewRasterSurface(width, height int) (*RasterSurface, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	return &RasterSurface{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: face,
		ras:  &vector.Rasterizer{},
	}, nil
}

// Image returns the backing image.
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

// EncodePNG writes the surface as PNG.
func (s *RasterSurface) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func pixelRect(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}

func (s *RasterSurface) FillRect(r geom.Rect, c color.Color) {
	draw.Draw(s.img, pixelRect(r), image.NewUniform(c), image.Point{}, draw.Over)
}

// StrokeRect draws the outline inside r.
func (s *RasterSurface) StrokeRect(r geom.Rect, c color.Color, width float64) {
	w := max(width, 1)
	if r.Width <= 2*w || r.Height <= 2*w {
		s.FillRect(r, c)
		return
	}
	s.FillRect(geom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: w}, c)
	s.FillRect(geom.Rect{X: r.X, Y: r.Bottom() - w, Width: r.Width, Height: w}, c)
	s.FillRect(geom.Rect{X: r.X, Y: r.Y + w, Width: w, Height: r.Height - 2*w}, c)
	s.FillRect(geom.Rect{X: r.Right() - w, Y: r.Y + w, Width: w, Height: r.Height - 2*w}, c)
}

// Line strokes the segment as a quad with square caps.
func (s *RasterSurface) Line(a, b geom.Point, c color.Color, width float64) {
	half := max(width, 1) / 2
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		s.FillRect(geom.Rect{X: a.X - half, Y: a.Y - half, Width: 2 * half, Height: 2 * half}, c)
		return
	}
	ux, uy := dx/length*half, dy/length*half
	a = geom.Point{X: a.X - ux, Y: a.Y - uy}
	b = geom.Point{X: b.X + ux, Y: b.Y + uy}
	s.fillPath([]geom.Point{
		{X: a.X - uy, Y: a.Y + ux},
		{X: b.X - uy, Y: b.Y + ux},
		{X: b.X + uy, Y: b.Y - ux},
		{X: a.X + uy, Y: a.Y - ux},
	}, c)
}

func (s *RasterSurface) FillPolygon(pts []geom.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	s.fillPath(pts, c)
}

func (s *RasterSurface) fillPath(pts []geom.Point, c color.Color) {
	b := s.img.Bounds()
	s.ras.Reset(b.Dx(), b.Dy())
	s.ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		s.ras.LineTo(float32(p.X), float32(p.Y))
	}
	s.ras.ClosePath()
	s.ras.Draw(s.img, b, image.NewUniform(c), image.Point{})
}

// Text draws s with its baseline starting at p.
func (s *RasterSurface) Text(p geom.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(int(math.Round(p.X)), int(math.Round(p.Y))),
	}
	d.DrawString(text)
}

// MeasureText returns the advance width of text in pixels.
func (s *RasterSurface) MeasureText(text string) float64 {
	return float64(font.MeasureString(s.face, text).Ceil())
}
