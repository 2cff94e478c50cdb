package model

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Row is one HIT or user record as the backend hands it over: a flat mapping
// from attribute key to its display string.
type Row map[string]string

// Get returns the value for key and whether the row carries it at all.
func (r Row) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[key]
	return v, ok
}

// ID is the row's primary key (HIT id or username).
func (r Row) ID() string { return r["id"] }

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Keys returns the row keys in sorted order.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// droppedKeys are never shown as columns; HIT variables are template input.
var droppedKeys = map[string]bool{"variables": true}

// RowFromMap flattens a decoded JSON object into a Row.
func RowFromMap(m map[string]any) Row {
	r := make(Row, len(m))
	for k, v := range m {
		if droppedKeys[k] {
			continue
		}
		r[k] = Stringify(v)
	}
	return r
}

// Stringify renders a JSON value the way the management tables display it.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
