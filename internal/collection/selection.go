package collection

import "sort"

// SelectionSet tracks which entities are marked for bulk action, keyed by
// entity id. Holding ids rather than entity references keeps the selection
// valid across filter, sort, and page re-derivations of the same underlying
// collection.
type SelectionSet struct {
	ids map[string]struct{}
}

// NewSelectionSet returns an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{ids: make(map[string]struct{})}
}

// SelectAll replaces the selection with exactly the given ids. Select-all
// is page-scoped: the caller passes the ids visible on the current page.
func (s *SelectionSet) SelectAll(visibleIDs []string) {
	s.ids = make(map[string]struct{}, len(visibleIDs))
	for _, id := range visibleIDs {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
}

// Clear empties the selection.
func (s *SelectionSet) Clear() {
	s.ids = make(map[string]struct{})
}

// Toggle adds or removes a single id. It is idempotent: toggling an id to
// a state it is already in is a no-op.
func (s *SelectionSet) Toggle(id string, checked bool) {
	if id == "" {
		return
	}
	if checked {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// Has reports whether the id is selected.
func (s *SelectionSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *SelectionSet) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *SelectionSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsAllSelected reports whether every visible id is selected. An empty
// visible page is never "all selected".
func (s *SelectionSet) IsAllSelected(visibleIDs []string) bool {
	if len(visibleIDs) == 0 {
		return false
	}
	for _, id := range visibleIDs {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Retain drops every selected id not present in valid, keeping the
// invariant that removing an entity from the collection also removes it
// from the selection.
func (s *SelectionSet) Retain(valid map[string]struct{}) {
	for id := range s.ids {
		if _, ok := valid[id]; !ok {
			delete(s.ids, id)
		}
	}
}
