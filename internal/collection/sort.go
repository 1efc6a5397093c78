package collection

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verandahq/veranda/model"
)

// Sort directions.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// SortConfig selects the single active sort field and direction. Ties are
// broken by the relative order entities had after filtering.
type SortConfig struct {
	Field     string
	Direction string
}

// Sort orders the collection by the configured field and direction and
// returns a new slice; the input is not mutated. The comparator is chosen
// by the field's declared kind: dates compare by epoch, numbers
// numerically, titles with a locale-aware collator, and everything else as
// case-sensitive text. Entities missing the field sort after every present
// value regardless of direction, so unassigned records never jump to the
// top under a descending sort. Descending order negates the ascending
// comparator rather than reversing the result, which would also reverse
// tie order.
func Sort(entities []model.Entity, spec Spec, cfg SortConfig) []model.Entity {
	out := append([]model.Entity(nil), entities...)
	if cfg.Field == "" {
		return out
	}

	kind := spec.kindOf(cfg.Field)
	var collator *collate.Collator
	if kind == model.FieldKindTitle {
		collator = collate.New(language.English)
	}

	desc := cfg.Direction == DirectionDesc
	sort.SliceStable(out, func(i, j int) bool {
		va := Resolve(out[i], cfg.Field)
		vb := Resolve(out[j], cfg.Field)

		// Absence ordering is applied before direction so that absent
		// values stay last under both asc and desc.
		aAbsent, bAbsent := IsAbsent(va), IsAbsent(vb)
		if aAbsent || bAbsent {
			return !aAbsent && bAbsent
		}

		cmp := compareValues(va, vb, kind, collator)
		if desc {
			cmp = -cmp
		}
		return cmp < 0
	})
	return out
}

// compareValues compares two present values under the declared field kind.
// Values that fail to parse under the kind fall back to case-sensitive
// string comparison of their string forms.
func compareValues(va, vb any, kind string, collator *collate.Collator) int {
	switch kind {
	case model.FieldKindDate:
		ta, aok := toTime(va)
		tb, bok := toTime(vb)
		if aok && bok {
			return compareInt64(ta.UnixMilli(), tb.UnixMilli())
		}
	case model.FieldKindNumber:
		fa, aok := toFloat(va)
		fb, bok := toFloat(vb)
		if aok && bok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	case model.FieldKindTitle:
		if collator != nil {
			return collator.CompareString(stringForm(va), stringForm(vb))
		}
	}
	return strings.Compare(stringForm(va), stringForm(vb))
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
