package model

// DomainDefinition is the root structure of a definition file. Each file
// declares one domain's navigation entry and its collection views.
type DomainDefinition struct {
	Domain     string               `yaml:"domain"     json:"domain"`
	Version    string               `yaml:"version"    json:"version"`
	Navigation NavigationDefinition `yaml:"navigation" json:"navigation"`
	Views      []ViewDefinition     `yaml:"views"      json:"views,omitempty"`

	// Checksum is computed at load time and not part of the YAML.
	Checksum string `yaml:"-" json:"-"`
	// SourceFile records the originating file path.
	SourceFile string `yaml:"-" json:"-"`
}

// NavigationDefinition describes a domain's menu entry.
type NavigationDefinition struct {
	Label        string                      `yaml:"label"        json:"label"`
	Icon         string                      `yaml:"icon"         json:"icon"`
	Order        int                         `yaml:"order"        json:"order"`
	Capabilities []string                    `yaml:"capabilities" json:"capabilities"`
	Children     []NavigationChildDefinition `yaml:"children"     json:"children"`
}

// NavigationChildDefinition describes a child navigation item in the menu.
type NavigationChildDefinition struct {
	Label        string   `yaml:"label"        json:"label"`
	Icon         string   `yaml:"icon"         json:"icon,omitempty"`
	Route        string   `yaml:"route"        json:"route"`
	ViewID       string   `yaml:"view_id"      json:"view_id"`
	Capabilities []string `yaml:"capabilities" json:"capabilities"`
	Order        int      `yaml:"order"        json:"order"`
}

// ViewDefinition describes one collection view: which dataset feeds it, how
// its rows are searched, filtered, and sorted, which summary metrics are
// derived from it, and which bulk actions it offers.
type ViewDefinition struct {
	ID           string                 `yaml:"id"            json:"id"`
	Title        string                 `yaml:"title"         json:"title"`
	Route        string                 `yaml:"route"         json:"route"`
	Capabilities []string               `yaml:"capabilities"  json:"capabilities"`
	Dataset      string                 `yaml:"dataset"       json:"dataset"`
	Columns      []ColumnDefinition     `yaml:"columns"       json:"columns"`
	SearchFields []string               `yaml:"search_fields" json:"search_fields,omitempty"`
	Filters      []FilterDefinition     `yaml:"filters"       json:"filters,omitempty"`
	Metrics      []MetricDefinition     `yaml:"metrics"       json:"metrics,omitempty"`
	BulkActions  []BulkActionDefinition `yaml:"bulk_actions"  json:"bulk_actions,omitempty"`
	DefaultSort  string                 `yaml:"default_sort"  json:"default_sort,omitempty"`
	SortDir      string                 `yaml:"sort_dir"      json:"sort_dir,omitempty"`
	PageSize     int                    `yaml:"page_size"     json:"page_size,omitempty"`
	Selectable   bool                   `yaml:"selectable"    json:"selectable,omitempty"`
}

// Field kinds usable in ColumnDefinition.Kind. The kind drives the sort
// comparator: numbers compare numerically, dates by epoch, titles with a
// locale-aware collator, and text byte-wise.
const (
	FieldKindText   = "text"
	FieldKindTitle  = "title"
	FieldKindNumber = "number"
	FieldKindDate   = "date"
	FieldKindEnum   = "enum"
)

// ColumnDefinition describes a table column backed by an entity field path.
type ColumnDefinition struct {
	Field     string            `yaml:"field"      json:"field"`
	Label     string            `yaml:"label"      json:"label"`
	Kind      string            `yaml:"kind"       json:"kind"`
	Sortable  bool              `yaml:"sortable"   json:"sortable,omitempty"`
	Format    string            `yaml:"format"     json:"format,omitempty"`
	Width     string            `yaml:"width"      json:"width,omitempty"`
	StatusMap map[string]string `yaml:"status_map" json:"status_map,omitempty"`
}

// Filter types usable in FilterDefinition.Type.
const (
	FilterTypeSelect      = "select"
	FilterTypeContains    = "contains"
	FilterTypeAssignee    = "assignee"
	FilterTypeNumberRange = "number_range"
	FilterTypeDateRange   = "date_range"
)

// FilterDefinition describes a filter control above a table. Select filters
// use the reserved value "all" (or empty) to mean "no constraint". Range
// filters accept <id>_min and <id>_max request parameters.
type FilterDefinition struct {
	ID      string         `yaml:"id"      json:"id"`
	Field   string         `yaml:"field"   json:"field"`
	Label   string         `yaml:"label"   json:"label"`
	Type    string         `yaml:"type"    json:"type"`
	Default string         `yaml:"default" json:"default,omitempty"`
	Options []StaticOption `yaml:"options" json:"options,omitempty"`
}

// StaticOption is a label/value pair for dropdowns and filters.
type StaticOption struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Metric types usable in MetricDefinition.Type.
const (
	MetricTypeCount       = "count"
	MetricTypeSum         = "sum"
	MetricTypeRate        = "rate"
	MetricTypeAverage     = "average"
	MetricTypeRecentCount = "recent_count"
)

// MetricDefinition describes one derived statistic over a collection.
//
//   - count:        number of entities matching Where (or all when nil)
//   - sum:          total of Field over entities matching Where
//   - rate:         round(count(Of) / count(Where-or-all) * 100); 0 when empty
//   - average:      mean of Field over entities that have it; 0 when none do
//   - recent_count: entities whose Field timestamp falls within Window of now
type MetricDefinition struct {
	ID     string           `yaml:"id"     json:"id"`
	Label  string           `yaml:"label"  json:"label"`
	Type   string           `yaml:"type"   json:"type"`
	Field  string           `yaml:"field"  json:"field,omitempty"`
	Where  *MetricCondition `yaml:"where"  json:"where,omitempty"`
	Of     *MetricCondition `yaml:"of"     json:"of,omitempty"`
	Window string           `yaml:"window" json:"window,omitempty"`
}

// MetricCondition narrows a metric to entities whose field equals a value.
type MetricCondition struct {
	Field  string `yaml:"field"  json:"field"`
	Equals string `yaml:"equals" json:"equals"`
}

// Bulk action kinds usable in BulkActionDefinition.Action.
const (
	BulkActionActivate    = "activate"
	BulkActionDeactivate  = "deactivate"
	BulkActionDelete      = "delete"
	BulkActionAssign      = "assign"
	BulkActionMaintenance = "maintenance"
	BulkActionExport      = "export"
)

// BulkActionDefinition describes a bulk action offered on selected rows.
type BulkActionDefinition struct {
	ID           string                  `yaml:"id"           json:"id"`
	Label        string                  `yaml:"label"        json:"label"`
	Action       string                  `yaml:"action"       json:"action"`
	Style        string                  `yaml:"style"        json:"style,omitempty"`
	Capabilities []string                `yaml:"capabilities" json:"capabilities"`
	Confirmation *ConfirmationDefinition `yaml:"confirmation" json:"confirmation,omitempty"`
}

// ConfirmationDefinition describes a confirmation dialog.
type ConfirmationDefinition struct {
	Title   string `yaml:"title"   json:"title"`
	Message string `yaml:"message" json:"message"`
	Confirm string `yaml:"confirm" json:"confirm"`
	Cancel  string `yaml:"cancel"  json:"cancel,omitempty"`
	Style   string `yaml:"style"   json:"style,omitempty"`
}
