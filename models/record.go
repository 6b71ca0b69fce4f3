package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one scraped listing exactly as the external source delivered it:
// an arbitrary nested JSON mapping. Accessors tolerate missing keys and wrong
// shapes so a partially populated listing never panics downstream.
type Record map[string]any

// Map returns the nested mapping under key, or an empty Record when the key
// is absent or holds a non-mapping value.
func (r Record) Map(key string) Record {
	switch v := r[key].(type) {
	case map[string]any:
		return Record(v)
	case Record:
		return v
	default:
		return Record{}
	}
}

// Slice returns the sequence under key, or nil.
func (r Record) Slice(key string) []any {
	if v, ok := r[key].([]any); ok {
		return v
	}
	return nil
}

// Value walks a nested path, resolving absent intermediate mappings to empty
// ones. The second return reports whether the leaf key was present.
func (r Record) Value(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur := r
	for _, key := range path[:len(path)-1] {
		cur = cur.Map(key)
	}
	v, ok := cur[path[len(path)-1]]
	return v, ok
}

// Str returns the string under key, or "" when absent or not a string.
func (r Record) Str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// HasBadge reports whether tag is a member of the listing's badges sequence.
func (r Record) HasBadge(tag string) bool {
	for _, b := range r.Slice("badges") {
		if s, ok := b.(string); ok && s == tag {
			return true
		}
	}
	return false
}

// RoomID normalizes the listing identifier, which the marketplace serves
// variously as a JSON number or a string. Newer room ids do not fit a
// float64, so raw payloads are decoded with json.Number upstream.
func (r Record) RoomID() (string, bool) {
	v, ok := r["room_id"]
	if !ok || v == nil {
		return "", false
	}
	switch id := v.(type) {
	case json.Number:
		s := id.String()
		return s, s != ""
	case string:
		s := strings.TrimSpace(id)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	default:
		return fmt.Sprint(v), true
	}
}

// Float coerces the scalar under key to a float64. Search payloads carry
// numbers as json.Number, detail snapshots occasionally as strings.
func (r Record) Float(key string) (float64, bool) {
	return AsFloat(r[key])
}

// AsFloat coerces any decoded JSON scalar to a float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
