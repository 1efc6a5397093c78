// Package view resolves view definitions into frontend descriptors and
// serves view data through one collection engine per view.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/verandahq/veranda/internal/collection"
	"github.com/verandahq/veranda/internal/dataset"
	"github.com/verandahq/veranda/internal/definition"
	"github.com/verandahq/veranda/model"
)

// Provider resolves ViewDefinitions into ViewDescriptors and serves data,
// statistics, selection state, and bulk actions for each view.
//
// Every view owns one collection engine. The engine itself is single-
// threaded, so each one is guarded by its own mutex; requests for different
// views never contend.
type Provider struct {
	registry *definition.Registry
	store    *dataset.Store

	mu      sync.Mutex
	engines map[string]*engineState
}

type engineState struct {
	mu      sync.Mutex
	engine  *collection.Engine
	dataset string
}

// NewProvider creates a Provider backed by the given registry and store.
func NewProvider(registry *definition.Registry, store *dataset.Store) *Provider {
	return &Provider{
		registry: registry,
		store:    store,
		engines:  make(map[string]*engineState),
	}
}

// Navigation builds the navigation tree visible to the given capabilities.
// Domains and children the caller cannot access are omitted entirely.
func (p *Provider) Navigation(caps model.CapabilitySet) model.NavigationTree {
	tree := model.NavigationTree{Items: []model.NavigationNode{}}

	for _, def := range p.registry.AllDomains() {
		nav := def.Navigation
		if len(nav.Capabilities) > 0 && !caps.HasAll(nav.Capabilities...) {
			continue
		}

		node := model.NavigationNode{
			ID:       def.Domain,
			Label:    nav.Label,
			Icon:     nav.Icon,
			Children: []model.NavigationNode{},
		}
		for _, child := range nav.Children {
			if len(child.Capabilities) > 0 && !caps.HasAll(child.Capabilities...) {
				continue
			}
			node.Children = append(node.Children, model.NavigationNode{
				ID:       child.ViewID,
				Label:    child.Label,
				Icon:     child.Icon,
				Route:    child.Route,
				Children: []model.NavigationNode{},
			})
		}
		if len(node.Children) == 0 {
			continue
		}
		tree.Items = append(tree.Items, node)
	}

	return tree
}

// Descriptor resolves a ViewDescriptor from the definition, filtering bulk
// actions by capabilities. Returns NOT_FOUND or FORBIDDEN errors.
func (p *Provider) Descriptor(ctx context.Context, caps model.CapabilitySet, viewID string) (model.ViewDescriptor, error) {
	def, err := p.authorizedView(caps, viewID)
	if err != nil {
		return model.ViewDescriptor{}, err
	}

	desc := model.ViewDescriptor{
		ID:            def.ID,
		Title:         def.Title,
		Route:         def.Route,
		DataEndpoint:  fmt.Sprintf("/ui/views/%s/data", def.ID),
		StatsEndpoint: fmt.Sprintf("/ui/views/%s/stats", def.ID),
		DefaultSort:   def.DefaultSort,
		SortDir:       def.SortDir,
		PageSize:      def.PageSize,
		Selectable:    def.Selectable,
	}
	if desc.PageSize <= 0 {
		desc.PageSize = 25
	}

	for _, col := range def.Columns {
		desc.Columns = append(desc.Columns, model.ColumnDescriptor{
			Field:     col.Field,
			Label:     col.Label,
			Kind:      col.Kind,
			Sortable:  col.Sortable,
			Format:    col.Format,
			Width:     col.Width,
			StatusMap: col.StatusMap,
		})
	}

	for _, f := range def.Filters {
		fd := model.FilterDescriptor{
			ID:      f.ID,
			Field:   f.Field,
			Label:   f.Label,
			Type:    f.Type,
			Default: f.Default,
		}
		for _, opt := range f.Options {
			fd.Options = append(fd.Options, model.OptionDescriptor{
				Label: opt.Label,
				Value: opt.Value,
			})
		}
		desc.Filters = append(desc.Filters, fd)
	}

	// Bulk actions the caller cannot perform are dropped from the descriptor.
	for _, a := range def.BulkActions {
		if len(a.Capabilities) > 0 && !caps.HasAll(a.Capabilities...) {
			continue
		}
		ad := model.BulkActionDescriptor{
			ID:     a.ID,
			Label:  a.Label,
			Action: a.Action,
			Style:  a.Style,
		}
		if a.Confirmation != nil {
			ad.Confirmation = &model.ConfirmationDescriptor{
				Title:   a.Confirmation.Title,
				Message: a.Confirmation.Message,
				Confirm: a.Confirmation.Confirm,
				Cancel:  a.Confirmation.Cancel,
				Style:   a.Confirmation.Style,
			}
		}
		desc.BulkActions = append(desc.BulkActions, ad)
	}

	return desc, nil
}

// Data applies the request parameters to the view's engine and returns the
// current page window.
func (p *Provider) Data(ctx context.Context, caps model.CapabilitySet, viewID string, params model.DataParams) (model.DataResponse, error) {
	def, err := p.authorizedView(caps, viewID)
	if err != nil {
		return model.DataResponse{}, err
	}

	es := p.engineFor(def)
	es.mu.Lock()
	defer es.mu.Unlock()

	p.refresh(es)
	applyParams(es.engine, def, params)

	return model.DataResponse{Data: es.engine.PageSlice()}, nil
}

// Stats computes the view's metrics over the whole collection. Statistics
// are fully recomputed on every call and never patched incrementally.
func (p *Provider) Stats(ctx context.Context, caps model.CapabilitySet, viewID string) (model.StatsResponse, error) {
	def, err := p.authorizedView(caps, viewID)
	if err != nil {
		return model.StatsResponse{}, err
	}

	es := p.engineFor(def)
	es.mu.Lock()
	defer es.mu.Unlock()

	p.refresh(es)

	return model.StatsResponse{
		Data: es.engine.Statistics(time.Now()),
		Meta: map[string]any{"computed_at": time.Now().UTC().Format(time.RFC3339)},
	}, nil
}

// Selection returns the view's current selection state.
func (p *Provider) Selection(ctx context.Context, caps model.CapabilitySet, viewID string) (model.SelectionResponse, error) {
	def, err := p.authorizedView(caps, viewID)
	if err != nil {
		return model.SelectionResponse{}, err
	}

	es := p.engineFor(def)
	es.mu.Lock()
	defer es.mu.Unlock()

	p.refresh(es)
	return selectionPayload(es.engine), nil
}

// UpdateSelection applies a selection operation and returns the new state.
func (p *Provider) UpdateSelection(ctx context.Context, caps model.CapabilitySet, viewID string, req model.SelectionRequest) (model.SelectionResponse, error) {
	def, err := p.authorizedView(caps, viewID)
	if err != nil {
		return model.SelectionResponse{}, err
	}
	if !def.Selectable {
		return model.SelectionResponse{}, model.NewBadRequestError(
			fmt.Sprintf("view %q does not support selection", viewID),
		)
	}

	es := p.engineFor(def)
	es.mu.Lock()
	defer es.mu.Unlock()

	p.refresh(es)

	switch req.Op {
	case model.SelectionOpSelectAll:
		es.engine.SelectAllVisible()
	case model.SelectionOpToggle:
		if req.ID == "" {
			return model.SelectionResponse{}, model.NewBadRequestError("toggle requires an id")
		}
		es.engine.ToggleSelection(req.ID, req.Checked)
	case model.SelectionOpClear:
		es.engine.ClearSelection()
	default:
		return model.SelectionResponse{}, model.NewBadRequestError(
			fmt.Sprintf("unknown selection op %q", req.Op),
		)
	}

	return selectionPayload(es.engine), nil
}

// Bulk dispatches a bulk action over the view's current selection. The
// action must be declared on the view and permitted by the caller's
// capabilities. On success the selection is cleared; on failure it is kept
// so the action can be retried.
func (p *Provider) Bulk(ctx context.Context, caps model.CapabilitySet, viewID string, req model.BulkRequest) (model.BulkResponse, error) {
	def, err := p.authorizedView(caps, viewID)
	if err != nil {
		return model.BulkResponse{}, err
	}

	var action *model.BulkActionDefinition
	for i := range def.BulkActions {
		if def.BulkActions[i].ID == req.Action {
			action = &def.BulkActions[i]
			break
		}
	}
	if action == nil {
		return model.BulkResponse{}, model.NewBadRequestError(
			fmt.Sprintf("view %q has no bulk action %q", viewID, req.Action),
		)
	}
	if len(action.Capabilities) > 0 && !caps.HasAll(action.Capabilities...) {
		return model.BulkResponse{}, model.NewForbiddenError(
			fmt.Sprintf("insufficient capabilities for bulk action %q", req.Action),
		)
	}

	es := p.engineFor(def)
	es.mu.Lock()
	defer es.mu.Unlock()

	p.refresh(es)

	affected, err := es.engine.DispatchBulkAction(ctx, action.Action, req.Payload,
		func(ctx context.Context, kind string, ids []string, payload map[string]any) (int, error) {
			return p.store.ApplyBulk(ctx, es.dataset, kind, ids, payload)
		})
	if err != nil {
		return model.BulkResponse{}, err
	}

	// The mutation changed the collection; refresh so the next read within
	// this request cycle sees it.
	p.refresh(es)

	return model.BulkResponse{
		Success:  true,
		Message:  fmt.Sprintf("%s applied to %d entities", action.Label, affected),
		Affected: affected,
	}, nil
}

// authorizedView looks a view up and checks view-level capabilities.
func (p *Provider) authorizedView(caps model.CapabilitySet, viewID string) (model.ViewDefinition, error) {
	def, ok := p.registry.GetView(viewID)
	if !ok {
		return model.ViewDefinition{}, model.NewNotFoundError(
			fmt.Sprintf("view %q not found", viewID),
		)
	}
	if len(def.Capabilities) > 0 && !caps.HasAll(def.Capabilities...) {
		return model.ViewDefinition{}, model.NewForbiddenError(
			fmt.Sprintf("insufficient capabilities for view %q", viewID),
		)
	}
	return def, nil
}

// engineFor returns the engine state for a view, creating it on first use.
func (p *Provider) engineFor(def model.ViewDefinition) *engineState {
	p.mu.Lock()
	defer p.mu.Unlock()

	es, ok := p.engines[def.ID]
	if !ok {
		es = &engineState{
			engine:  collection.NewEngine(collection.SpecFromDefinition(def)),
			dataset: def.Dataset,
		}
		p.engines[def.ID] = es
	}
	return es
}

// refresh loads the latest dataset snapshot into the engine. Selection
// entries whose entities vanished are dropped; everything else survives.
// Must be called with the engine state locked.
func (p *Provider) refresh(es *engineState) {
	if entities, ok := p.store.Snapshot(es.dataset); ok {
		es.engine.SetEntities(entities)
	}
}

func selectionPayload(en *collection.Engine) model.SelectionResponse {
	return model.SelectionResponse{
		Data: model.SelectionPayload{
			IDs:         en.Selection(),
			AllSelected: en.IsAllVisibleSelected(),
		},
	}
}

// applyParams maps request parameters onto engine state. Only parameters
// present in the request change state, so a bare data request re-serves the
// engine's current view.
func applyParams(en *collection.Engine, def model.ViewDefinition, params model.DataParams) {
	en.SetSearch(params.Query)

	for _, f := range def.Filters {
		switch f.Type {
		case model.FilterTypeNumberRange, model.FilterTypeDateRange:
			min, hasMin := params.Filters[f.ID+"_min"]
			max, hasMax := params.Filters[f.ID+"_max"]
			if hasMin || hasMax {
				en.SetRange(f.ID, min, max)
			}
		default:
			if v, ok := params.Filters[f.ID]; ok {
				en.SetFilter(f.ID, v)
			}
		}
	}

	if params.Sort != "" {
		en.SetSort(params.Sort, params.SortDir)
	}
	if params.PageSize > 0 {
		en.SetPageSize(params.PageSize)
	}
	if params.Page > 0 {
		en.SetPage(params.Page)
	}
}
