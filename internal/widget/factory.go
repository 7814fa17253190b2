package widget

import "github.com/wcatz/widget-canvas/internal/geom"

// DefaultSizes maps widget kind to its toolbar size in pixels.
var DefaultSizes = map[Kind]geom.Size{
	KindRect:      {Width: 100, Height: 100},
	KindBarChart:  {Width: 300, Height: 200},
	KindLineChart: {Width: 300, Height: 200},
	KindPieChart:  {Width: 200, Height: 200},
	KindTable:     {Width: 400, Height: 240},
	KindFilter:    {Width: 240, Height: 120},
	KindContainer: {Width: 320, Height: 260},
}

// Factory creates widgets from a kind, a geometry and variant properties.
type Factory struct {
	IDGen *IDGenerator
	// Sizes overrides DefaultSizes per kind.
	Sizes map[Kind]geom.Size
	// MinSize is the smallest width and height a created widget may have.
	MinSize float64
}

// NewFactory creates a factory using idGen for fresh ids.
func NewFactory(idGen *IDGenerator) *Factory {
	return &Factory{IDGen: idGen, Sizes: map[Kind]geom.Size{}, MinSize: 20}
}

// Known reports whether kind names a variant.
func Known(kind Kind) bool {
	_, ok := DefaultSizes[kind]
	return ok
}

// DefaultSize returns the configured size for kind.
func (f *Factory) DefaultSize(kind Kind) geom.Size {
	if s, ok := f.Sizes[kind]; ok {
		return s
	}
	return DefaultSizes[kind]
}

// Create builds a widget. An "id" entry in props is kept, otherwise a fresh
// id is generated. Zero width or height falls back to the default size and
// negative coordinates are clamped to zero. Unknown kinds return false.
func (f *Factory) Create(kind Kind, r geom.Rect, props map[string]interface{}) (Widget, bool) {
	if !Known(kind) {
		return nil, false
	}
	if props == nil {
		props = map[string]interface{}{}
	}
	id := getString(props, "id", "")
	if id == "" {
		id = f.IDGen.Next()
	}
	label := getString(props, "label", "")
	r = f.normalize(kind, r)

	switch kind {
	case KindRect:
		return NewRect(id, label, r), true
	case KindBarChart:
		return NewBarChart(id, label, r, getFloatSlice(props, "values"), getStringSlice(props, "labels")), true
	case KindLineChart:
		return NewLineChart(id, label, r, getFloatSlice(props, "values"), getStringSlice(props, "labels")), true
	case KindPieChart:
		return NewPieChart(id, label, r, getFloatSlice(props, "values"), getStringSlice(props, "labels")), true
	case KindTable:
		t := NewTable(id, label, r, getStringSlice(props, "columns"), getStringMatrix(props, "rows"))
		if hasKey(props, "sortColumn") {
			t.SetSort(getInt(props, "sortColumn", -1), getBool(props, "sortAscending", true))
		}
		return t, true
	case KindFilter:
		return NewFilter(id, label, r, getPredicates(props, "predicates")), true
	case KindContainer:
		var children []Widget
		for _, rec := range getRecords(props, "children") {
			if ch, ok := f.FromRecord(rec); ok {
				children = append(children, ch)
			}
		}
		c := NewContainer(id, label, r, children)
		if hasKey(props, "activeIndex") {
			c.SetActive(getInt(props, "activeIndex", 0))
		}
		return c, true
	}
	return nil, false
}

// FromRecord builds a widget from a flat serialized record
// {id, type, x, y, width, height, ...payload}.
func (f *Factory) FromRecord(rec map[string]interface{}) (Widget, bool) {
	r := geom.Rect{
		X:      getFloat(rec, "x", 0),
		Y:      getFloat(rec, "y", 0),
		Width:  getFloat(rec, "width", 0),
		Height: getFloat(rec, "height", 0),
	}
	return f.Create(Kind(getString(rec, "type", "")), r, rec)
}

func (f *Factory) normalize(kind Kind, r geom.Rect) geom.Rect {
	def := f.DefaultSize(kind)
	if r.Width <= 0 {
		r.Width = def.Width
	}
	if r.Height <= 0 {
		r.Height = def.Height
	}
	r.X = max(r.X, 0)
	r.Y = max(r.Y, 0)
	r.Width = max(r.Width, f.MinSize)
	r.Height = max(r.Height, f.MinSize)
	return r
}
