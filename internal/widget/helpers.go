package widget

import "strconv"

func getString(m map[string]interface{}, key, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func getInt(m map[string]interface{}, key string, def int) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return def
}

func getFloat(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return def
}

func getBool(m map[string]interface{}, key string, def bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func hasKey(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}

// toStrings converts a decoded list to strings. Numbers are formatted so
// YAML cells like 42 survive as "42".
func toStrings(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...)
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, cellString(item))
		}
		return out
	}
	return nil
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	case nil:
		return ""
	}
	return ""
}

func getStringSlice(m map[string]interface{}, key string) []string {
	return toStrings(m[key])
}

func getFloatSlice(m map[string]interface{}, key string) []float64 {
	switch s := m[key].(type) {
	case []float64:
		return append([]float64(nil), s...)
	case []interface{}:
		out := make([]float64, 0, len(s))
		for _, item := range s {
			switch n := item.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			case int64:
				out = append(out, float64(n))
			}
		}
		return out
	}
	return nil
}

func getStringMatrix(m map[string]interface{}, key string) [][]string {
	switch rows := m[key].(type) {
	case [][]string:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = append([]string(nil), r...)
		}
		return out
	case []interface{}:
		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, toStrings(r))
		}
		return out
	}
	return nil
}

// getRecords reads a list of nested widget records.
func getRecords(m map[string]interface{}, key string) []map[string]interface{} {
	switch list := m[key].(type) {
	case []map[string]interface{}:
		return list
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(list))
		for _, item := range list {
			if rec, ok := item.(map[string]interface{}); ok {
				out = append(out, rec)
			}
		}
		return out
	}
	return nil
}

func getPredicates(m map[string]interface{}, key string) []Predicate {
	var out []Predicate
	for _, rec := range getRecords(m, key) {
		op, err := ParseOperator(getString(rec, "operator", ""))
		if err != nil {
			continue
		}
		out = append(out, Predicate{
			Column:   getString(rec, "column", ""),
			Operator: op,
			Value:    cellString(rec["value"]),
		})
	}
	return out
}
