// Package collection implements the shared pipeline behind every listing
// view of the console: filtering, sorting, pagination, bulk selection, and
// derived statistics over an in-memory entity collection. One Engine is
// instantiated per view from a declarative Spec; all operations are pure,
// synchronous, in-memory computations with no I/O, owned by a single
// logical controller at a time.
package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/verandahq/veranda/model"
)

// BulkHandler applies a bulk action to the given ids and returns the number
// of entities affected. It is supplied by the persistence collaborator; the
// engine hands the action off verbatim.
type BulkHandler func(ctx context.Context, action string, ids []string, payload map[string]any) (int, error)

// Engine is the stateful controller for one collection view. It owns the
// working collection, the filter, sort, and page state, and the selection
// set, and derives page slices and statistics on demand.
//
// The Engine is not safe for concurrent use; callers that serve it from
// concurrent handlers must serialize access.
type Engine struct {
	spec      Spec
	entities  []model.Entity
	filters   FilterState
	sort      SortConfig
	page      PageConfig
	selection *SelectionSet
}

// NewEngine creates an Engine for the given spec with an empty collection,
// default filter values, the spec's default sort, and page 1.
func NewEngine(spec Spec) *Engine {
	return &Engine{
		spec:      spec,
		filters:   newFilterState(spec),
		sort:      SortConfig{Field: spec.DefaultSort, Direction: spec.DefaultDir},
		page:      PageConfig{Page: 1, PageSize: spec.PageSize},
		selection: NewSelectionSet(),
	}
}

// SetEntities replaces the working collection wholesale. Selected ids that
// no longer exist in the new collection are dropped from the selection set.
func (en *Engine) SetEntities(entities []model.Entity) {
	en.entities = append([]model.Entity(nil), entities...)

	valid := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		if id := e.ID(); id != "" {
			valid[id] = struct{}{}
		}
	}
	en.selection.Retain(valid)
}

// SetSearch updates the search term and resets to page 1 when the term
// changes.
func (en *Engine) SetSearch(term string) {
	if en.filters.Search == term {
		return
	}
	en.filters.Search = term
	en.page.Page = 1
}

// SetFilter updates a select, contains, or assignee filter and resets to
// page 1. Ids the spec does not declare are silently ignored.
func (en *Engine) SetFilter(id, value string) {
	if _, ok := en.filters.Values[id]; !ok {
		return
	}
	if en.filters.Values[id] == value {
		return
	}
	en.filters.Values[id] = value
	en.page.Page = 1
}

// SetRange updates the bounds of a range filter and resets to page 1. Ids
// the spec does not declare are silently ignored.
func (en *Engine) SetRange(id, min, max string) {
	if _, ok := en.filters.Ranges[id]; !ok {
		return
	}
	r := Range{Min: min, Max: max}
	if en.filters.Ranges[id] == r {
		return
	}
	en.filters.Ranges[id] = r
	en.page.Page = 1
}

// SetSort updates the active sort field and direction. Fields not declared
// as columns are silently ignored, keeping the engine total over any
// config. Direction values other than "desc" sort ascending.
func (en *Engine) SetSort(field, direction string) {
	if field == "" {
		return
	}
	if _, ok := en.spec.FieldKinds[field]; !ok {
		return
	}
	if direction != DirectionDesc {
		direction = DirectionAsc
	}
	en.sort = SortConfig{Field: field, Direction: direction}
}

// SetPage moves to the requested page. Out-of-range values are clamped at
// read time.
func (en *Engine) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	en.page.Page = n
}

// SetPageSize changes the page size and resets to page 1. Non-positive
// sizes are ignored.
func (en *Engine) SetPageSize(n int) {
	if n <= 0 || n == en.page.PageSize {
		return
	}
	en.page.PageSize = n
	en.page.Page = 1
}

// derive runs the full pipeline: filter, then sort, then paginate. The
// clamped page reported by the window is written back so the stored page
// always matches what was served.
func (en *Engine) derive() Window {
	filtered := Filter(en.entities, en.spec, en.filters)
	sorted := Sort(filtered, en.spec, en.sort)
	w := Paginate(sorted, en.page)
	en.page.Page = w.Page
	return w
}

// PageSlice returns the current page window of the filtered, sorted
// collection.
func (en *Engine) PageSlice() model.DataPayload {
	w := en.derive()
	return model.DataPayload{
		Items:      w.Items,
		TotalCount: w.TotalItems,
		TotalPages: w.TotalPages,
		Page:       w.Page,
		PageSize:   w.PageSize,
	}
}

// Statistics computes the view's metrics over the raw collection.
func (en *Engine) Statistics(now time.Time) model.StatisticsSnapshot {
	return Aggregate(en.entities, en.spec.Metrics, now)
}

// FilteredStatistics computes the view's metrics over the filtered
// collection, unaffected by pagination.
func (en *Engine) FilteredStatistics(now time.Time) model.StatisticsSnapshot {
	return Aggregate(Filter(en.entities, en.spec, en.filters), en.spec.Metrics, now)
}

// VisibleIDs returns the ids of the entities on the current page.
func (en *Engine) VisibleIDs() []string {
	w := en.derive()
	ids := make([]string, 0, len(w.Items))
	for _, e := range w.Items {
		if id := e.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectAllVisible replaces the selection with the ids on the current page.
func (en *Engine) SelectAllVisible() {
	en.selection.SelectAll(en.VisibleIDs())
}

// ToggleSelection adds or removes a single id from the selection.
func (en *Engine) ToggleSelection(id string, checked bool) {
	en.selection.Toggle(id, checked)
}

// ClearSelection empties the selection.
func (en *Engine) ClearSelection() {
	en.selection.Clear()
}

// Selection returns the selected ids in sorted order.
func (en *Engine) Selection() []string {
	return en.selection.IDs()
}

// IsAllVisibleSelected reports whether every entity on the current page is
// selected. An empty page is never fully selected.
func (en *Engine) IsAllVisibleSelected() bool {
	return en.selection.IsAllSelected(en.VisibleIDs())
}

// DispatchBulkAction hands the current selection and payload to the
// handler. The selection is cleared only when the handler succeeds; on
// failure it is left intact so the action can be retried.
func (en *Engine) DispatchBulkAction(ctx context.Context, action string, payload map[string]any, handler BulkHandler) (int, error) {
	ids := en.selection.IDs()
	if len(ids) == 0 {
		return 0, model.NewBadRequestError("no entities selected")
	}
	if handler == nil {
		return 0, model.NewInternalError()
	}

	affected, err := handler(ctx, action, ids, payload)
	if err != nil {
		return 0, model.NewBulkActionFailedError(
			fmt.Sprintf("bulk action %q failed: %v", action, err),
		)
	}

	en.selection.Clear()
	return affected, nil
}
