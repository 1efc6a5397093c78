package collection

import (
	"testing"

	"github.com/verandahq/veranda/model"
)

func TestMatchesSearch_blankTermAlwaysMatches(t *testing.T) {
	e := model.Entity{"title": "Leaking pipe"}
	if !MatchesSearch(e, "", []string{"title"}) {
		t.Error("blank term should match")
	}
	if !MatchesSearch(e, "   ", []string{"title"}) {
		t.Error("whitespace term should match")
	}
}

func TestMatchesSearch_caseInsensitiveSubstring(t *testing.T) {
	e := model.Entity{"title": "Broken Elevator Door"}
	if !MatchesSearch(e, "elevator", []string{"title"}) {
		t.Error("lowercased term should match mixed-case field")
	}
	if MatchesSearch(e, "plumbing", []string{"title"}) {
		t.Error("unrelated term should not match")
	}
}

func TestMatchesSearch_tagArrayJoined(t *testing.T) {
	e := model.Entity{
		"title":       "Sink repair",
		"description": "Drain blocked",
		"tags":        []any{"Kitchen-Sink", "Plumbing"},
	}
	if !MatchesSearch(e, "kitchen", []string{"title", "description", "tags"}) {
		t.Error("term inside tag array should match case-insensitively")
	}
}

func TestMatchesSearch_doesNotMatchUnsearchedNumericID(t *testing.T) {
	// "kitchen" appearing only in a field outside the search set must not match.
	e := model.Entity{
		"id":    "kitchen-4711",
		"title": "Garden bench",
		"tags":  []any{"Outdoor"},
	}
	if MatchesSearch(e, "kitchen", []string{"title", "description", "tags"}) {
		t.Error("term outside the search field set should not match")
	}
}

func TestMatchesSearch_nestedMemberName(t *testing.T) {
	e := model.Entity{"assignedTo": map[string]any{"name": "Rahul Mehta"}}
	if !MatchesSearch(e, "mehta", []string{"assignedTo.name"}) {
		t.Error("nested member name should be searchable")
	}
}

func TestMatchesEquality_allBypasses(t *testing.T) {
	e := model.Entity{"status": "occupied"}
	if !MatchesEquality(e, "status", "all") {
		t.Error(`"all" should match anything`)
	}
	if !MatchesEquality(e, "status", "") {
		t.Error("empty expected should match anything")
	}
}

func TestMatchesEquality_caseSensitiveExact(t *testing.T) {
	e := model.Entity{"status": "occupied"}
	if !MatchesEquality(e, "status", "occupied") {
		t.Error("exact value should match")
	}
	if MatchesEquality(e, "status", "Occupied") {
		t.Error("equality is case-sensitive")
	}
	if MatchesEquality(e, "status", "vacant") {
		t.Error("different value should not match")
	}
}

func TestMatchesEquality_absentNeverMatchesConstraint(t *testing.T) {
	e := model.Entity{"id": "u-1"}
	if MatchesEquality(e, "status", "occupied") {
		t.Error("absent field should not match a non-all filter")
	}
}

func TestMatchesContains_substringOnLocationFields(t *testing.T) {
	e := model.Entity{"location": map[string]any{"building": "Tower B"}}
	if !MatchesContains(e, "location.building", "tower") {
		t.Error("contains filter should match case-insensitive substring")
	}
	if MatchesContains(e, "location.building", "annex") {
		t.Error("non-substring should not match")
	}
	if !MatchesContains(e, "location.building", "all") {
		t.Error(`"all" should bypass contains filter`)
	}
}

func TestMatchesAssignee_absentMemberNeverMatches(t *testing.T) {
	unassigned := model.Entity{"id": "p-9"}
	if MatchesAssignee(unassigned, "assignedTo", "priya") {
		t.Error("entity without assignee should not match a non-all filter")
	}
	if !MatchesAssignee(unassigned, "assignedTo", "all") {
		t.Error(`"all" should match even without an assignee`)
	}
}

func TestMatchesAssignee_nameSubstring(t *testing.T) {
	e := model.Entity{"assignedTo": map[string]any{"name": "Priya Nair"}}
	if !MatchesAssignee(e, "assignedTo", "priya") {
		t.Error("assignee name substring should match case-insensitively")
	}
	if MatchesAssignee(e, "assignedTo", "rahul") {
		t.Error("non-matching name should not match")
	}
}

func TestMatchesNumberRange_inclusiveBounds(t *testing.T) {
	e := model.Entity{"size": 500.0}
	if !MatchesNumberRange(e, "size", "500", "800") {
		t.Error("value equal to min should match (inclusive)")
	}
	if !MatchesNumberRange(e, "size", "200", "500") {
		t.Error("value equal to max should match (inclusive)")
	}
	if MatchesNumberRange(e, "size", "501", "") {
		t.Error("value below min should not match")
	}
	if MatchesNumberRange(e, "size", "", "499") {
		t.Error("value above max should not match")
	}
}

func TestMatchesNumberRange_openBoundsMatchEverything(t *testing.T) {
	e := model.Entity{"id": "u-1"} // no size field at all
	if !MatchesNumberRange(e, "size", "", "") {
		t.Error("fully open range should match even absent fields")
	}
}

func TestMatchesNumberRange_absentFieldFailsActiveBound(t *testing.T) {
	e := model.Entity{"id": "u-1"}
	if MatchesNumberRange(e, "size", "100", "") {
		t.Error("absent field should not match an active bound")
	}
}

func TestMatchesNumberRange_malformedBoundDegradesToUnbounded(t *testing.T) {
	e := model.Entity{"size": 500.0}
	// A half-typed bound must not exclude anything on that side.
	if !MatchesNumberRange(e, "size", "abc", "") {
		t.Error("malformed min should degrade to unbounded")
	}
	if !MatchesNumberRange(e, "size", "", "-") {
		t.Error("malformed max should degrade to unbounded")
	}
}

func TestMatchesDateRange_inclusiveEpochComparison(t *testing.T) {
	e := model.Entity{"createdAt": "2026-03-14T10:00:00Z"}
	if !MatchesDateRange(e, "createdAt", "2026-03-01", "2026-03-31") {
		t.Error("date inside range should match")
	}
	if MatchesDateRange(e, "createdAt", "2026-04-01", "") {
		t.Error("date before min should not match")
	}
	if MatchesDateRange(e, "createdAt", "", "2026-03-13") {
		t.Error("date after max should not match")
	}
}

func TestMatchesDateRange_malformedValueFailsActiveBound(t *testing.T) {
	e := model.Entity{"createdAt": "not-a-date"}
	if MatchesDateRange(e, "createdAt", "2026-01-01", "") {
		t.Error("unparsable date should not match an active bound")
	}
	if !MatchesDateRange(e, "createdAt", "", "") {
		t.Error("fully open range should still match")
	}
}
