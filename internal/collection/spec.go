package collection

import (
	"strings"

	"github.com/verandahq/veranda/model"
)

// Spec is the compiled, engine-facing shape of a view definition: which
// fields are searchable, which filters exist and how they match, the
// declared kind of each sortable field, and the metric set.
type Spec struct {
	SearchFields []string
	Filters      []FilterSpec
	FieldKinds   map[string]string
	Metrics      []model.MetricDefinition
	DefaultSort  string
	DefaultDir   string
	PageSize     int
}

// FilterSpec is one compiled filter control.
type FilterSpec struct {
	ID      string
	Field   string
	Type    string
	Default string
}

// SpecFromDefinition compiles a ViewDefinition into a Spec. Column kinds
// default to text; a missing page size defaults to 25, matching the
// descriptor resolution in the view provider.
func SpecFromDefinition(def model.ViewDefinition) Spec {
	s := Spec{
		SearchFields: append([]string(nil), def.SearchFields...),
		FieldKinds:   make(map[string]string, len(def.Columns)),
		Metrics:      append([]model.MetricDefinition(nil), def.Metrics...),
		DefaultSort:  def.DefaultSort,
		DefaultDir:   def.SortDir,
		PageSize:     def.PageSize,
	}
	for _, col := range def.Columns {
		kind := col.Kind
		if kind == "" {
			kind = model.FieldKindText
		}
		s.FieldKinds[col.Field] = kind
	}
	for _, f := range def.Filters {
		s.Filters = append(s.Filters, FilterSpec{
			ID:      f.ID,
			Field:   f.Field,
			Type:    f.Type,
			Default: f.Default,
		})
	}
	if s.DefaultDir == "" {
		s.DefaultDir = DirectionAsc
	}
	if s.PageSize <= 0 {
		s.PageSize = 25
	}
	return s
}

// kindOf returns the declared kind for a field. Fields without a declared
// kind fall back to a name heuristic: anything ending in "Date" or "At"
// is treated as a date, everything else as text.
func (s Spec) kindOf(field string) string {
	if kind, ok := s.FieldKinds[field]; ok && kind != "" {
		return kind
	}
	last := field
	if i := strings.LastIndex(field, "."); i >= 0 {
		last = field[i+1:]
	}
	if strings.HasSuffix(last, "Date") || strings.HasSuffix(last, "At") {
		return model.FieldKindDate
	}
	return model.FieldKindText
}
