package collection

import "github.com/verandahq/veranda/model"

// FilterState is the current value of every filter control on a view.
// Values is keyed by filter id; a value of "all" or "" is a no-op. Ranges
// carries the bounds of range filters, also keyed by filter id.
type FilterState struct {
	Search string
	Values map[string]string
	Ranges map[string]Range
}

// Range is a pair of raw bounds for a range filter. Either side may be
// blank, meaning unbounded.
type Range struct {
	Min string
	Max string
}

// newFilterState initializes filter values from the spec's defaults.
func newFilterState(spec Spec) FilterState {
	st := FilterState{
		Values: make(map[string]string, len(spec.Filters)),
		Ranges: make(map[string]Range),
	}
	for _, f := range spec.Filters {
		switch f.Type {
		case model.FilterTypeNumberRange, model.FilterTypeDateRange:
			st.Ranges[f.ID] = Range{}
		default:
			v := f.Default
			if v == "" {
				v = model.FilterAll
			}
			st.Values[f.ID] = v
		}
	}
	return st
}

// Filter applies the search term and every configured filter to the
// collection with AND semantics, short-circuiting on the first failing
// predicate per entity. The result is a new slice preserving relative
// order; the input is not mutated. Predicates run in a deterministic
// order: search first, then filters in spec declaration order. Filter
// state for ids the spec does not declare is ignored.
func Filter(entities []model.Entity, spec Spec, state FilterState) []model.Entity {
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if matchesAll(e, spec, state) {
			out = append(out, e)
		}
	}
	return out
}

func matchesAll(e model.Entity, spec Spec, state FilterState) bool {
	if !MatchesSearch(e, state.Search, spec.SearchFields) {
		return false
	}
	for _, f := range spec.Filters {
		switch f.Type {
		case model.FilterTypeNumberRange:
			r := state.Ranges[f.ID]
			if !MatchesNumberRange(e, f.Field, r.Min, r.Max) {
				return false
			}
		case model.FilterTypeDateRange:
			r := state.Ranges[f.ID]
			if !MatchesDateRange(e, f.Field, r.Min, r.Max) {
				return false
			}
		case model.FilterTypeContains:
			if !MatchesContains(e, f.Field, state.Values[f.ID]) {
				return false
			}
		case model.FilterTypeAssignee:
			if !MatchesAssignee(e, f.Field, state.Values[f.ID]) {
				return false
			}
		default:
			// Select filters and any unrecognized type use equality-or-all,
			// keeping the pipeline total over arbitrary configs.
			if !MatchesEquality(e, f.Field, state.Values[f.ID]) {
				return false
			}
		}
	}
	return true
}
