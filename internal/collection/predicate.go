package collection

import (
	"strings"

	"github.com/verandahq/veranda/model"
)

// The predicate library. Every predicate is pure and total: malformed or
// absent input degrades to "does not match" (or, for range bounds, to
// "does not exclude") rather than raising, because these functions sit
// directly under interactive filter input.

// isBypass reports whether a filter value means "no constraint".
func isBypass(v string) bool {
	return v == "" || v == model.FilterAll
}

// MatchesSearch reports whether the lowercased term is contained in the
// lowercased string form of any of the listed fields. Fields reachable
// inside one level of array or nested object participate via their joined
// string form. A blank term always matches.
func MatchesSearch(e model.Entity, term string, fields []string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, field := range fields {
		haystack := stringForm(Resolve(e, field))
		if haystack == "" {
			continue
		}
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

// MatchesEquality reports whether the resolved field exactly equals the
// expected value (case-sensitive). The value "all" or "" always matches.
func MatchesEquality(e model.Entity, field, expected string) bool {
	if isBypass(expected) {
		return true
	}
	v := Resolve(e, field)
	if IsAbsent(v) {
		return false
	}
	s, ok := v.(string)
	if !ok {
		s = stringForm(v)
	}
	return s == expected
}

// MatchesContains reports whether the expected value is a case-insensitive
// substring of the resolved field. This is the documented exception to exact
// equality used by free-text location and building filters. The value "all"
// or "" always matches.
func MatchesContains(e model.Entity, field, expected string) bool {
	if isBypass(expected) {
		return true
	}
	haystack := stringForm(Resolve(e, field))
	if haystack == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(expected))
}

// MatchesAssignee reports whether the entity has an assigned member at the
// given field and that member's name contains the expected value
// (case-insensitive). Absence of an assigned member never matches a
// non-bypass filter.
func MatchesAssignee(e model.Entity, field, expected string) bool {
	if isBypass(expected) {
		return true
	}
	v := Resolve(e, field)
	if IsAbsent(v) {
		return false
	}
	var name string
	if m, ok := v.(map[string]any); ok {
		name, _ = m["name"].(string)
	} else {
		name = stringForm(v)
	}
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(expected))
}

// MatchesNumberRange reports whether the numeric field lies within
// [min, max] inclusive. A blank or unparsable bound is unbounded on that
// side. With both bounds open everything matches; otherwise an entity
// lacking the field does not match.
func MatchesNumberRange(e model.Entity, field, min, max string) bool {
	lo, hasLo := parseBound(min, toFloatBound)
	hi, hasHi := parseBound(max, toFloatBound)
	if !hasLo && !hasHi {
		return true
	}
	v, ok := toFloat(Resolve(e, field))
	if !ok {
		return false
	}
	if hasLo && v < lo {
		return false
	}
	if hasHi && v > hi {
		return false
	}
	return true
}

// MatchesDateRange reports whether the date field lies within [min, max]
// inclusive, compared by epoch. Bound semantics match MatchesNumberRange.
func MatchesDateRange(e model.Entity, field, min, max string) bool {
	lo, hasLo := parseBound(min, toTimeBound)
	hi, hasHi := parseBound(max, toTimeBound)
	if !hasLo && !hasHi {
		return true
	}
	t, ok := toTime(Resolve(e, field))
	if !ok {
		return false
	}
	v := float64(t.UnixMilli())
	if hasLo && v < lo {
		return false
	}
	if hasHi && v > hi {
		return false
	}
	return true
}

// parseBound parses one range bound. Blank and unparsable bounds are
// unbounded, so half-typed input never empties the visible list.
func parseBound(raw string, parse func(string) (float64, bool)) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	return parse(raw)
}

func toFloatBound(raw string) (float64, bool) {
	return toFloat(raw)
}

// toTimeBound parses a date bound into epoch milliseconds.
func toTimeBound(raw string) (float64, bool) {
	t, ok := toTime(raw)
	if !ok {
		return 0, false
	}
	return float64(t.UnixMilli()), true
}
