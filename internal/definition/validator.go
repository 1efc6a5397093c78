package definition

import (
	"fmt"
	"strings"
	"time"

	"github.com/verandahq/veranda/model"
)

// VError describes a single validation error in a definition.
type VError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e VError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validator validates definitions structurally and referentially: required
// fields, enum values, duplicate IDs, and references from filters, metrics,
// sorts, and navigation back to declared views and columns.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks all definitions and returns every error found.
func (v *Validator) Validate(defs []model.DomainDefinition) []VError {
	var errs []VError

	viewIDs := make(map[string]string)
	for i, def := range defs {
		prefix := fmt.Sprintf("definitions[%d]", i)
		errs = append(errs, v.validateDomain(prefix, def)...)

		for j, view := range def.Views {
			if view.ID == "" {
				continue
			}
			if prior, dup := viewIDs[view.ID]; dup {
				errs = append(errs, VError{
					Path:    fmt.Sprintf("%s.views[%d].id", prefix, j),
					Code:    "DUPLICATE_ID",
					Message: fmt.Sprintf("view %q already declared in %s", view.ID, prior),
				})
			} else {
				viewIDs[view.ID] = prefix
			}
		}
	}

	// Navigation children must point at declared views, across all domains.
	for i, def := range defs {
		for j, child := range def.Navigation.Children {
			if child.ViewID == "" {
				continue
			}
			if _, ok := viewIDs[child.ViewID]; !ok {
				errs = append(errs, VError{
					Path:    fmt.Sprintf("definitions[%d].navigation.children[%d].view_id", i, j),
					Code:    "REF_NOT_FOUND",
					Message: fmt.Sprintf("view %q not found", child.ViewID),
				})
			}
		}
	}

	return errs
}

func (v *Validator) validateDomain(prefix string, def model.DomainDefinition) []VError {
	var errs []VError

	if def.Domain == "" {
		errs = append(errs, VError{Path: prefix + ".domain", Code: "REQUIRED", Message: "domain is required"})
	}
	if def.Version == "" {
		errs = append(errs, VError{Path: prefix + ".version", Code: "REQUIRED", Message: "version is required"})
	}
	if def.Navigation.Label == "" {
		errs = append(errs, VError{Path: prefix + ".navigation.label", Code: "REQUIRED", Message: "navigation.label is required"})
	}
	if len(def.Navigation.Children) == 0 {
		errs = append(errs, VError{Path: prefix + ".navigation.children", Code: "REQUIRED", Message: "at least one navigation child is required"})
	}

	for i, view := range def.Views {
		vp := fmt.Sprintf("%s.views[%d]", prefix, i)
		errs = append(errs, v.validateView(vp, view, def.Domain)...)
	}

	return errs
}

var validFieldKinds = map[string]bool{
	model.FieldKindText: true, model.FieldKindTitle: true,
	model.FieldKindNumber: true, model.FieldKindDate: true,
	model.FieldKindEnum: true,
}

var validFilterTypes = map[string]bool{
	model.FilterTypeSelect: true, model.FilterTypeContains: true,
	model.FilterTypeAssignee: true, model.FilterTypeNumberRange: true,
	model.FilterTypeDateRange: true,
}

var validMetricTypes = map[string]bool{
	model.MetricTypeCount: true, model.MetricTypeSum: true,
	model.MetricTypeRate: true, model.MetricTypeAverage: true,
	model.MetricTypeRecentCount: true,
}

var validBulkActions = map[string]bool{
	model.BulkActionActivate: true, model.BulkActionDeactivate: true,
	model.BulkActionDelete: true, model.BulkActionAssign: true,
	model.BulkActionMaintenance: true, model.BulkActionExport: true,
}

func (v *Validator) validateView(prefix string, view model.ViewDefinition, domain string) []VError {
	var errs []VError

	if view.ID == "" {
		errs = append(errs, VError{Path: prefix + ".id", Code: "REQUIRED", Message: "id is required"})
	}
	if view.Title == "" {
		errs = append(errs, VError{Path: prefix + ".title", Code: "REQUIRED", Message: "title is required"})
	}
	if view.Dataset == "" {
		errs = append(errs, VError{Path: prefix + ".dataset", Code: "REQUIRED", Message: "dataset is required"})
	}
	if len(view.Columns) == 0 {
		errs = append(errs, VError{Path: prefix + ".columns", Code: "REQUIRED", Message: "at least one column is required"})
	}
	if view.PageSize < 0 || view.PageSize > 200 {
		errs = append(errs, VError{Path: prefix + ".page_size", Code: "RANGE", Message: "page_size must be 0-200"})
	}

	fields := make(map[string]bool, len(view.Columns))
	filterIDs := make(map[string]bool, len(view.Filters))
	metricIDs := make(map[string]bool, len(view.Metrics))
	actionIDs := make(map[string]bool, len(view.BulkActions))

	for i, col := range view.Columns {
		cp := fmt.Sprintf("%s.columns[%d]", prefix, i)
		if col.Field == "" {
			errs = append(errs, VError{Path: cp + ".field", Code: "REQUIRED", Message: "field is required"})
		} else if fields[col.Field] {
			errs = append(errs, VError{Path: cp + ".field", Code: "DUPLICATE_ID", Message: fmt.Sprintf("column %q already declared", col.Field)})
		}
		fields[col.Field] = true
		if col.Kind != "" && !validFieldKinds[col.Kind] {
			errs = append(errs, VError{Path: cp + ".kind", Code: "INVALID_ENUM", Message: fmt.Sprintf("invalid field kind %q", col.Kind)})
		}
	}

	for i, f := range view.Filters {
		fp := fmt.Sprintf("%s.filters[%d]", prefix, i)
		if f.ID == "" {
			errs = append(errs, VError{Path: fp + ".id", Code: "REQUIRED", Message: "id is required"})
		} else if filterIDs[f.ID] {
			errs = append(errs, VError{Path: fp + ".id", Code: "DUPLICATE_ID", Message: fmt.Sprintf("filter %q already declared", f.ID)})
		}
		filterIDs[f.ID] = true

		if f.Field == "" {
			errs = append(errs, VError{Path: fp + ".field", Code: "REQUIRED", Message: "field is required"})
		}
		if f.Type == "" {
			errs = append(errs, VError{Path: fp + ".type", Code: "REQUIRED", Message: "type is required"})
		} else if !validFilterTypes[f.Type] {
			errs = append(errs, VError{Path: fp + ".type", Code: "INVALID_ENUM", Message: fmt.Sprintf("invalid filter type %q", f.Type)})
		}
	}

	for i, m := range view.Metrics {
		mp := fmt.Sprintf("%s.metrics[%d]", prefix, i)
		if m.ID == "" {
			errs = append(errs, VError{Path: mp + ".id", Code: "REQUIRED", Message: "id is required"})
		} else if metricIDs[m.ID] {
			errs = append(errs, VError{Path: mp + ".id", Code: "DUPLICATE_ID", Message: fmt.Sprintf("metric %q already declared", m.ID)})
		}
		metricIDs[m.ID] = true

		if m.Type == "" {
			errs = append(errs, VError{Path: mp + ".type", Code: "REQUIRED", Message: "type is required"})
		} else if !validMetricTypes[m.Type] {
			errs = append(errs, VError{Path: mp + ".type", Code: "INVALID_ENUM", Message: fmt.Sprintf("invalid metric type %q", m.Type)})
		}

		switch m.Type {
		case model.MetricTypeSum, model.MetricTypeAverage:
			if m.Field == "" {
				errs = append(errs, VError{Path: mp + ".field", Code: "REQUIRED", Message: fmt.Sprintf("field is required for %s metrics", m.Type)})
			}
		case model.MetricTypeRate:
			if m.Of == nil {
				errs = append(errs, VError{Path: mp + ".of", Code: "REQUIRED", Message: "of condition is required for rate metrics"})
			}
		case model.MetricTypeRecentCount:
			if m.Field == "" {
				errs = append(errs, VError{Path: mp + ".field", Code: "REQUIRED", Message: "field is required for recent_count metrics"})
			}
			if m.Window == "" {
				errs = append(errs, VError{Path: mp + ".window", Code: "REQUIRED", Message: "window is required for recent_count metrics"})
			} else if d, err := time.ParseDuration(m.Window); err != nil || d <= 0 {
				errs = append(errs, VError{Path: mp + ".window", Code: "INVALID_DURATION", Message: fmt.Sprintf("invalid window %q", m.Window)})
			}
		}
	}

	for i, a := range view.BulkActions {
		ap := fmt.Sprintf("%s.bulk_actions[%d]", prefix, i)
		if a.ID == "" {
			errs = append(errs, VError{Path: ap + ".id", Code: "REQUIRED", Message: "id is required"})
		} else if actionIDs[a.ID] {
			errs = append(errs, VError{Path: ap + ".id", Code: "DUPLICATE_ID", Message: fmt.Sprintf("bulk action %q already declared", a.ID)})
		}
		actionIDs[a.ID] = true

		if a.Action == "" {
			errs = append(errs, VError{Path: ap + ".action", Code: "REQUIRED", Message: "action is required"})
		} else if !validBulkActions[a.Action] {
			errs = append(errs, VError{Path: ap + ".action", Code: "INVALID_ENUM", Message: fmt.Sprintf("invalid bulk action %q", a.Action)})
		}
	}

	if view.DefaultSort != "" && !fields[view.DefaultSort] {
		errs = append(errs, VError{
			Path:    prefix + ".default_sort",
			Code:    "REF_NOT_FOUND",
			Message: fmt.Sprintf("default_sort %q is not a declared column", view.DefaultSort),
		})
	}
	if view.SortDir != "" && view.SortDir != "asc" && view.SortDir != "desc" {
		errs = append(errs, VError{Path: prefix + ".sort_dir", Code: "INVALID_ENUM", Message: fmt.Sprintf("invalid sort_dir %q", view.SortDir)})
	}

	// Capability namespaces must match the owning domain.
	if domain != "" {
		for _, cap := range view.Capabilities {
			if !strings.HasPrefix(cap, domain+":") && cap != "*" {
				errs = append(errs, VError{
					Path:    prefix + ".capabilities",
					Code:    "NAMESPACE_MISMATCH",
					Message: fmt.Sprintf("capability %q does not match domain %q", cap, domain),
				})
			}
		}
	}

	return errs
}
