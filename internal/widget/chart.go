package widget

import (
	"math"

	"github.com/wcatz/widget-canvas/internal/geom"
)

// series is an ordered numeric series with a parallel label sequence.
type series struct {
	values []float64
	labels []string
}

// newSeries truncates the longer of values and labels so both have equal
// length.
func newSeries(values []float64, labels []string) series {
	n := min(len(values), len(labels))
	s := series{values: make([]float64, n), labels: make([]string, n)}
	copy(s.values, values)
	copy(s.labels, labels)
	return s
}

func (s series) clone() series {
	return newSeries(s.values, s.labels)
}

func (s series) Values() []float64 { return append([]float64(nil), s.values...) }
func (s series) Labels() []string  { return append([]string(nil), s.labels...) }

func (s series) payload() map[string]interface{} {
	values := make([]interface{}, len(s.values))
	for i, v := range s.values {
		values[i] = v
	}
	labels := make([]interface{}, len(s.labels))
	for i, l := range s.labels {
		labels[i] = l
	}
	return map[string]interface{}{"values": values, "labels": labels}
}

func (s series) maxValue() float64 {
	m := 0.0
	for _, v := range s.values {
		if v > m {
			m = v
		}
	}
	return m
}

// plotArea is the part of the widget below the label and above the axis
// labels.
func plotArea(r geom.Rect) geom.Rect {
	return geom.Rect{X: r.X + 8, Y: r.Y + 22, Width: r.Width - 16, Height: r.Height - 40}
}

// BarChart draws one vertical bar per value.
type BarChart struct {
	base
	series
}

// NewBarChart creates a bar chart.
func NewBarChart(id, label string, r geom.Rect, values []float64, labels []string) *BarChart {
	return &BarChart{base: base{id: id, label: label, bounds: r}, series: newSeries(values, labels)}
}

func (w *BarChart) Kind() Kind { return KindBarChart }

func (w *BarChart) Draw(dc DrawContext) {
	w.drawFrame(dc)
	area := plotArea(w.bounds)
	if len(w.values) == 0 || area.IsEmpty() {
		return
	}
	top := w.maxValue()
	slot := area.Width / float64(len(w.values))
	for i, v := range w.values {
		h := 0.0
		if top > 0 {
			h = area.Height * math.Max(v, 0) / top
		}
		bar := geom.Rect{X: area.X + float64(i)*slot + slot*0.15, Y: area.Bottom() - h, Width: slot * 0.7, Height: h}
		dc.FillRect(bar, dc.Theme.SeriesColor(i))
		dc.Text(geom.Point{X: area.X + float64(i)*slot + 2, Y: area.Bottom() + 14}, w.labels[i], dc.Theme.Text)
	}
	dc.Line(geom.Point{X: area.X, Y: area.Bottom()}, geom.Point{X: area.Right(), Y: area.Bottom()}, dc.Theme.Border, 1)
}

func (w *BarChart) WithBounds(r geom.Rect) Widget {
	c := w.clone()
	c.bounds = r
	return c
}

func (w *BarChart) Clone() Widget { return w.clone() }

func (w *BarChart) clone() *BarChart {
	return &BarChart{base: w.base, series: w.series.clone()}
}

func (w *BarChart) Payload() map[string]interface{} { return w.payload() }

// LineChart joins the values with a polyline.
type LineChart struct {
	base
	series
}

// NewLineChart creates a line chart.
func NewLineChart(id, label string, r geom.Rect, values []float64, labels []string) *LineChart {
	return &LineChart{base: base{id: id, label: label, bounds: r}, series: newSeries(values, labels)}
}

func (w *LineChart) Kind() Kind { return KindLineChart }

func (w *LineChart) Draw(dc DrawContext) {
	w.drawFrame(dc)
	area := plotArea(w.bounds)
	if len(w.values) == 0 || area.IsEmpty() {
		return
	}
	top := w.maxValue()
	step := area.Width
	if len(w.values) > 1 {
		step = area.Width / float64(len(w.values)-1)
	}
	var prev geom.Point
	for i, v := range w.values {
		y := area.Bottom()
		if top > 0 {
			y -= area.Height * math.Max(v, 0) / top
		}
		p := geom.Point{X: area.X + float64(i)*step, Y: y}
		if i > 0 {
			dc.Line(prev, p, dc.Theme.Accent, 2)
		}
		dc.Text(geom.Point{X: p.X, Y: area.Bottom() + 14}, w.labels[i], dc.Theme.Text)
		prev = p
	}
	dc.Line(geom.Point{X: area.X, Y: area.Bottom()}, geom.Point{X: area.Right(), Y: area.Bottom()}, dc.Theme.Border, 1)
}

func (w *LineChart) WithBounds(r geom.Rect) Widget {
	c := w.clone()
	c.bounds = r
	return c
}

func (w *LineChart) Clone() Widget { return w.clone() }

func (w *LineChart) clone() *LineChart {
	return &LineChart{base: w.base, series: w.series.clone()}
}

func (w *LineChart) Payload() map[string]interface{} { return w.payload() }

// PieChart draws each value as a wedge proportional to its share of the
// total.
type PieChart struct {
	base
	series
}

// NewPieChart creates a pie chart.
func NewPieChart(id, label string, r geom.Rect, values []float64, labels []string) *PieChart {
	return &PieChart{base: base{id: id, label: label, bounds: r}, series: newSeries(values, labels)}
}

func (w *PieChart) Kind() Kind { return KindPieChart }

func (w *PieChart) Draw(dc DrawContext) {
	w.drawFrame(dc)
	area := plotArea(w.bounds)
	total := 0.0
	for _, v := range w.values {
		total += math.Max(v, 0)
	}
	if total == 0 || area.IsEmpty() {
		return
	}
	radius := math.Min(area.Width, area.Height) / 2
	center := geom.Point{X: area.X + area.Width/2, Y: area.Y + area.Height/2}
	start := -math.Pi / 2
	for i, v := range w.values {
		sweep := 2 * math.Pi * math.Max(v, 0) / total
		if sweep == 0 {
			continue
		}
		dc.FillPolygon(wedge(center, radius, start, sweep), dc.Theme.SeriesColor(i))
		mid := start + sweep/2
		dc.Text(geom.Point{X: center.X + math.Cos(mid)*radius*0.6, Y: center.Y + math.Sin(mid)*radius*0.6}, w.labels[i], dc.Theme.Text)
		start += sweep
	}
}

// wedge approximates a circular sector with a polygon.
func wedge(c geom.Point, radius, start, sweep float64) []geom.Point {
	steps := int(math.Ceil(sweep / (math.Pi / 36)))
	pts := make([]geom.Point, 0, steps+2)
	pts = append(pts, c)
	for i := 0; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		pts = append(pts, geom.Point{X: c.X + math.Cos(a)*radius, Y: c.Y + math.Sin(a)*radius})
	}
	return pts
}

func (w *PieChart) WithBounds(r geom.Rect) Widget {
	c := w.clone()
	c.bounds = r
	return c
}

func (w *PieChart) Clone() Widget { return w.clone() }

func (w *PieChart) clone() *PieChart {
	return &PieChart{base: w.base, series: w.series.clone()}
}

func (w *PieChart) Payload() map[string]interface{} { return w.payload() }
