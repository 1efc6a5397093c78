package model

// FilterAll is the reserved filter value meaning "no constraint for this
// field". An empty string is treated the same way. Society domains have no
// legitimate enum value literally named "all"; if one ever appears the
// sentinel must move to a non-string value.
const FilterAll = "all"

// DataParams carries the query-string parameters of a data request. Filters
// is keyed by filter id; range filters arrive as "<id>_min"/"<id>_max".
type DataParams struct {
	Page     int
	PageSize int
	Sort     string
	SortDir  string
	Query    string
	Filters  map[string]string
}

// Selection operations accepted by the selection endpoint.
const (
	SelectionOpSelectAll = "select_all"
	SelectionOpToggle    = "toggle"
	SelectionOpClear     = "clear"
)

// SelectionRequest mutates the selection set of a view. SelectAll is scoped
// to the currently visible page; Toggle adds or removes one id.
type SelectionRequest struct {
	Op      string `json:"op"`
	ID      string `json:"id,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

// BulkRequest dispatches a bulk action over the current selection set.
type BulkRequest struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
}
