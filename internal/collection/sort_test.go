package collection

import (
	"reflect"
	"testing"

	"github.com/verandahq/veranda/model"
)

func sortSpec() Spec {
	return SpecFromDefinition(model.ViewDefinition{
		Columns: []model.ColumnDefinition{
			{Field: "id", Kind: model.FieldKindText},
			{Field: "title", Kind: model.FieldKindTitle},
			{Field: "size", Kind: model.FieldKindNumber},
			{Field: "createdAt", Kind: model.FieldKindDate},
			{Field: "priority", Kind: model.FieldKindText},
		},
	})
}

func TestSort_numericAscending(t *testing.T) {
	in := []model.Entity{
		{"id": "a", "size": 800.0},
		{"id": "b", "size": 300.0},
		{"id": "c", "size": 500.0},
	}
	got := idsOf(Sort(in, sortSpec(), SortConfig{Field: "size", Direction: DirectionAsc}))
	want := []string{"b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort asc = %v, want %v", got, want)
	}
}

func TestSort_numericDescending(t *testing.T) {
	in := []model.Entity{
		{"id": "a", "size": 300.0},
		{"id": "b", "size": 800.0},
		{"id": "c", "size": 500.0},
	}
	got := idsOf(Sort(in, sortSpec(), SortConfig{Field: "size", Direction: DirectionDesc}))
	want := []string{"b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort desc = %v, want %v", got, want)
	}
}

func TestSort_dateByEpoch(t *testing.T) {
	in := []model.Entity{
		{"id": "a", "createdAt": "2026-03-14T10:00:00Z"},
		{"id": "b", "createdAt": "2025-12-01T08:00:00Z"},
		{"id": "c", "createdAt": "2026-01-20"},
	}
	got := idsOf(Sort(in, sortSpec(), SortConfig{Field: "createdAt", Direction: DirectionAsc}))
	want := []string{"b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort by date = %v, want %v", got, want)
	}
}

func TestSort_dateHeuristicForUndeclaredFields(t *testing.T) {
	// "resolvedAt" is not a declared column; its name should trigger the
	// date heuristic.
	in := []model.Entity{
		{"id": "a", "resolvedAt": "2026-02-01T00:00:00Z"},
		{"id": "b", "resolvedAt": "2026-01-15T00:00:00Z"},
	}
	spec := sortSpec()
	if spec.kindOf("resolvedAt") != model.FieldKindDate {
		t.Fatalf("kindOf(resolvedAt) = %q, want date", spec.kindOf("resolvedAt"))
	}
	got := idsOf(Sort(in, spec, SortConfig{Field: "resolvedAt", Direction: DirectionAsc}))
	if !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Sort by resolvedAt = %v, want [b a]", got)
	}
}

func TestSort_textCaseSensitive(t *testing.T) {
	in := []model.Entity{
		{"id": "a", "priority": "high"},
		{"id": "b", "priority": "High"},
	}
	// Byte order puts "High" before "high".
	got := idsOf(Sort(in, sortSpec(), SortConfig{Field: "priority", Direction: DirectionAsc}))
	if !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Sort text = %v, want [b a]", got)
	}
}

func TestSort_stableOnTies(t *testing.T) {
	in := []model.Entity{
		{"id": "first", "size": 500.0},
		{"id": "second", "size": 500.0},
		{"id": "third", "size": 500.0},
	}
	asc := idsOf(Sort(in, sortSpec(), SortConfig{Field: "size", Direction: DirectionAsc}))
	desc := idsOf(Sort(in, sortSpec(), SortConfig{Field: "size", Direction: DirectionDesc}))
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(asc, want) {
		t.Errorf("asc tie order = %v, want %v", asc, want)
	}
	if !reflect.DeepEqual(desc, want) {
		t.Errorf("desc tie order = %v, want %v (desc must not reverse ties)", desc, want)
	}
}

func TestSort_absentAlwaysLast(t *testing.T) {
	in := []model.Entity{
		{"id": "missing"},
		{"id": "present", "size": 100.0},
	}
	for _, dir := range []string{DirectionAsc, DirectionDesc} {
		got := idsOf(Sort(in, sortSpec(), SortConfig{Field: "size", Direction: dir}))
		if got[len(got)-1] != "missing" {
			t.Errorf("direction %s: absent entity not last: %v", dir, got)
		}
	}
}

func TestSort_absentTieKeepsOrder(t *testing.T) {
	in := []model.Entity{
		{"id": "m1"},
		{"id": "m2"},
		{"id": "p", "size": 1.0},
	}
	got := idsOf(Sort(in, sortSpec(), SortConfig{Field: "size", Direction: DirectionDesc}))
	want := []string{"p", "m1", "m2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSort_titleLocaleAware(t *testing.T) {
	in := []model.Entity{
		{"id": "b", "title": "garden cleanup"},
		{"id": "a", "title": "Annual meeting"},
	}
	got := idsOf(Sort(in, sortSpec(), SortConfig{Field: "title", Direction: DirectionAsc}))
	// A collator orders case-insensitively: "Annual" before "garden".
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Sort title = %v, want [a b]", got)
	}
}

func TestSort_doesNotMutateInput(t *testing.T) {
	in := []model.Entity{
		{"id": "a", "size": 800.0},
		{"id": "b", "size": 300.0},
	}
	before := idsOf(in)
	_ = Sort(in, sortSpec(), SortConfig{Field: "size", Direction: DirectionAsc})
	if !reflect.DeepEqual(idsOf(in), before) {
		t.Error("Sort mutated its input slice")
	}
}

func TestSort_emptyFieldReturnsCopyInOrder(t *testing.T) {
	in := []model.Entity{{"id": "a"}, {"id": "b"}}
	got := idsOf(Sort(in, sortSpec(), SortConfig{}))
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Sort with no field = %v, want [a b]", got)
	}
}
