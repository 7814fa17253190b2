package widget

import (
	"encoding/json"
	"fmt"
)

// Record flattens w into {id, type, x, y, width, height, label, ...payload}.
func Record(w Widget) map[string]interface{} {
	b := w.Bounds()
	rec := map[string]interface{}{
		"id":     w.ID(),
		"type":   string(w.Kind()),
		"x":      b.X,
		"y":      b.Y,
		"width":  b.Width,
		"height": b.Height,
	}
	if w.Label() != "" {
		rec["label"] = w.Label()
	}
	for k, v := range w.Payload() {
		rec[k] = v
	}
	return rec
}

// Records flattens a widget list in order.
func Records(ws []Widget) []map[string]interface{} {
	out := make([]map[string]interface{}, len(ws))
	for i, w := range ws {
		out[i] = Record(w)
	}
	return out
}

// Marshal encodes a widget list as an indented JSON array.
func Marshal(ws []Widget) ([]byte, error) {
	data, err := json.MarshalIndent(Records(ws), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling widgets: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON widget list through the factory. Entries with an
// unknown type are skipped. Duplicate ids are replaced with fresh ones so the
// scene keeps unique ids.
func Unmarshal(data []byte, f *Factory) ([]Widget, error) {
	var recs []map[string]interface{}
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parsing widgets: %w", err)
	}
	return FromRecords(recs, f), nil
}

// FromRecords builds widgets from decoded records. See Unmarshal.
func FromRecords(recs []map[string]interface{}, f *Factory) []Widget {
	seen := make(map[string]bool)
	var out []Widget
	for _, rec := range recs {
		w, ok := f.FromRecord(UniqueRecord(rec, seen, f.IDGen))
		if !ok {
			continue
		}
		out = append(out, w)
	}
	return out
}

// UniqueRecord returns a copy of rec in which the id and every nested child
// id is absent from seen. Missing or taken ids are replaced with fresh ones
// from idGen. All ids of the result are added to seen.
func UniqueRecord(rec map[string]interface{}, seen map[string]bool, idGen *IDGenerator) map[string]interface{} {
	out := make(map[string]interface{}, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	id := getString(rec, "id", "")
	if id == "" || seen[id] {
		id = idGen.NextFree(func(id string) bool { return seen[id] })
		out["id"] = id
	}
	seen[id] = true

	if children := getRecords(rec, "children"); len(children) > 0 {
		unique := make([]interface{}, len(children))
		for i, ch := range children {
			unique[i] = UniqueRecord(ch, seen, idGen)
		}
		out["children"] = unique
	}
	return out
}

// IDs returns the id of w followed by the ids of its descendants.
func IDs(w Widget) []string {
	ids := []string{w.ID()}
	if c, ok := w.(*Container); ok {
		for _, ch := range c.Children() {
			ids = append(ids, IDs(ch)...)
		}
	}
	return ids
}
