package model

// NavigationTree is the top-level navigation structure returned to the frontend.
type NavigationTree struct {
	Items []NavigationNode `json:"items"`
}

// NavigationNode is a single node in the navigation tree.
type NavigationNode struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Icon     string           `json:"icon"`
	Route    string           `json:"route,omitempty"`
	Children []NavigationNode `json:"children"`
}

// ViewDescriptor is the resolved view metadata sent to the frontend.
type ViewDescriptor struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Route         string                 `json:"route"`
	DataEndpoint  string                 `json:"data_endpoint"`
	StatsEndpoint string                 `json:"stats_endpoint"`
	Columns       []ColumnDescriptor     `json:"columns"`
	Filters       []FilterDescriptor     `json:"filters,omitempty"`
	BulkActions   []BulkActionDescriptor `json:"bulk_actions,omitempty"`
	DefaultSort   string                 `json:"default_sort,omitempty"`
	SortDir       string                 `json:"sort_dir,omitempty"`
	PageSize      int                    `json:"page_size"`
	Selectable    bool                   `json:"selectable"`
}

// ColumnDescriptor describes a visible table column.
type ColumnDescriptor struct {
	Field     string            `json:"field"`
	Label     string            `json:"label"`
	Kind      string            `json:"kind"`
	Sortable  bool              `json:"sortable"`
	Format    string            `json:"format,omitempty"`
	Width     string            `json:"width,omitempty"`
	StatusMap map[string]string `json:"status_map,omitempty"`
}

// FilterDescriptor describes a resolved filter control.
type FilterDescriptor struct {
	ID      string             `json:"id"`
	Field   string             `json:"field"`
	Label   string             `json:"label"`
	Type    string             `json:"type"`
	Default string             `json:"default,omitempty"`
	Options []OptionDescriptor `json:"options,omitempty"`
}

// OptionDescriptor is a resolved option for dropdowns and filters.
type OptionDescriptor struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BulkActionDescriptor is a resolved bulk action sent to the frontend.
type BulkActionDescriptor struct {
	ID           string                  `json:"id"`
	Label        string                  `json:"label"`
	Action       string                  `json:"action"`
	Style        string                  `json:"style,omitempty"`
	Confirmation *ConfirmationDescriptor `json:"confirmation,omitempty"`
}

// ConfirmationDescriptor describes a confirmation dialog.
type ConfirmationDescriptor struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Confirm string `json:"confirm"`
	Cancel  string `json:"cancel,omitempty"`
	Style   string `json:"style,omitempty"`
}

// DataResponse is the standardized data response for collection views.
type DataResponse struct {
	Data DataPayload    `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// DataPayload contains one page window of a filtered, sorted collection.
// Page is the page actually served; when the requested page exceeded the
// window it carries the clamped value.
type DataPayload struct {
	Items      []Entity `json:"items"`
	TotalCount int      `json:"total_count"`
	TotalPages int      `json:"total_pages"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// StatisticsSnapshot is a fully recomputed summary of a collection at read
// time, keyed by metric id. It has no identity and is never patched
// incrementally.
type StatisticsSnapshot map[string]float64

// StatsResponse wraps a StatisticsSnapshot for the stats endpoint.
type StatsResponse struct {
	Data StatisticsSnapshot `json:"data"`
	Meta map[string]any     `json:"meta,omitempty"`
}

// SelectionResponse reports the current bulk-selection state of a view.
type SelectionResponse struct {
	Data SelectionPayload `json:"data"`
}

// SelectionPayload contains the selected ids and whether the currently
// visible page is fully selected.
type SelectionPayload struct {
	IDs         []string `json:"ids"`
	AllSelected bool     `json:"all_selected"`
}

// BulkResponse is the response from dispatching a bulk action.
type BulkResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Affected int    `json:"affected"`
}

// LookupResponse is the response from a field-options lookup.
type LookupResponse struct {
	Data LookupPayload  `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// LookupPayload contains the lookup options.
type LookupPayload struct {
	Options []OptionDescriptor `json:"options"`
}
