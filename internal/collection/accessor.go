package collection

import (
	"strconv"
	"strings"
	"time"

	"github.com/verandahq/veranda/model"
)

// absentValue is the sentinel type for fields that cannot be resolved.
type absentValue struct{}

// Absent is returned by Resolve when a field path cannot be resolved against
// an entity. It sorts after every present value and never matches a
// non-bypass filter.
var Absent = absentValue{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(absentValue)
	return ok
}

// Resolve walks a dotted field path (e.g. "assignedTo.name") through nested
// maps and returns the value at the end of the path, or Absent when any
// intermediate is missing or nil. It never panics and performs no type
// coercion; callers interpret the value according to the field's declared
// kind.
func Resolve(e model.Entity, path string) any {
	if e == nil || path == "" {
		return Absent
	}

	var current any = map[string]any(e)
	for _, part := range strings.Split(path, ".") {
		var m map[string]any
		switch v := current.(type) {
		case map[string]any:
			m = v
		case model.Entity:
			m = v
		default:
			return Absent
		}
		next, ok := m[part]
		if !ok || next == nil {
			return Absent
		}
		current = next
	}
	return current
}

// stringForm renders a resolved value as searchable text. Slices are joined
// element-wise with spaces so that tag lists participate in substring search.
// Nested maps render as the joined string forms of their values, which covers
// one level of object fields (e.g. an assigned member's name). Unknown types
// render empty rather than leaking Go syntax into match results.
func stringForm(v any) string {
	switch t := v.(type) {
	case absentValue, nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	case []string:
		return strings.Join(t, " ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			if s := stringForm(el); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			if s, ok := el.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// StringForm renders a resolved value as display text, using the same
// rendering the search predicates match against.
func StringForm(v any) string {
	return stringForm(v)
}

// toFloat interprets a resolved value as a number. The second return is
// false for Absent and non-numeric values.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Layouts accepted when a date field is stored as a string.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// toTime interprets a resolved value as a point in time. The second return
// is false for Absent and unparsable values.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
