package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verandahq/veranda/internal/dataset"
	"github.com/verandahq/veranda/internal/definition"
	"github.com/verandahq/veranda/model"
)

func fixtureDefs() []model.DomainDefinition {
	return []model.DomainDefinition{
		{
			Domain:   "facilities",
			Version:  "1.0.0",
			Checksum: "abc",
			Navigation: model.NavigationDefinition{
				Label:        "Facilities",
				Order:        1,
				Capabilities: []string{"facilities:read"},
				Children: []model.NavigationChildDefinition{
					{Label: "Parking", Route: "/facilities/parking", ViewID: "facilities.parking",
						Capabilities: []string{"facilities:read"}},
				},
			},
			Views: []model.ViewDefinition{
				{
					ID:           "facilities.parking",
					Title:        "Parking Slots",
					Route:        "/facilities/parking",
					Capabilities: []string{"facilities:read"},
					Dataset:      dataset.ParkingSlots,
					Selectable:   true,
					DefaultSort:  "id",
					PageSize:     10,
					SearchFields: []string{"id", "assignedTo.name"},
					Columns: []model.ColumnDefinition{
						{Field: "id", Kind: model.FieldKindText, Sortable: true},
						{Field: "status", Kind: model.FieldKindEnum},
						{Field: "size", Kind: model.FieldKindNumber, Sortable: true},
						{Field: "location.building", Kind: model.FieldKindText},
					},
					Filters: []model.FilterDefinition{
						{ID: "status", Field: "status", Type: model.FilterTypeSelect, Default: "all"},
						{ID: "size", Field: "size", Type: model.FilterTypeNumberRange},
					},
					Metrics: []model.MetricDefinition{
						{ID: "totalSlots", Type: model.MetricTypeCount},
						{ID: "occupancyRate", Type: model.MetricTypeRate,
							Of: &model.MetricCondition{Field: "status", Equals: "occupied"}},
					},
					BulkActions: []model.BulkActionDefinition{
						{ID: "deactivate", Label: "Deactivate", Action: model.BulkActionDeactivate,
							Capabilities: []string{"facilities:write"}},
						{ID: "delete", Label: "Delete", Action: model.BulkActionDelete,
							Capabilities: []string{"facilities:admin"}},
					},
				},
			},
		},
	}
}

func adminCaps() model.CapabilitySet {
	return model.CapabilitySet{"facilities:*": true}
}

func readerCaps() model.CapabilitySet {
	return model.CapabilitySet{"facilities:read": true}
}

func newFixture(t *testing.T) (*Provider, *dataset.Store) {
	t.Helper()
	store := dataset.NewStore()
	dataset.Seed(store, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	reg := definition.NewRegistry(fixtureDefs())
	return NewProvider(reg, store), store
}

func TestProvider_Descriptor(t *testing.T) {
	p, _ := newFixture(t)

	desc, err := p.Descriptor(context.Background(), adminCaps(), "facilities.parking")
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if desc.DataEndpoint != "/ui/views/facilities.parking/data" {
		t.Errorf("DataEndpoint = %q", desc.DataEndpoint)
	}
	if len(desc.Columns) != 4 {
		t.Errorf("Columns = %d, want 4", len(desc.Columns))
	}
	if len(desc.BulkActions) != 2 {
		t.Errorf("BulkActions = %d, want 2 for admin", len(desc.BulkActions))
	}
}

func TestProvider_DescriptorFiltersBulkActionsByCapability(t *testing.T) {
	p, _ := newFixture(t)

	desc, err := p.Descriptor(context.Background(), readerCaps(), "facilities.parking")
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if len(desc.BulkActions) != 0 {
		t.Errorf("BulkActions = %d, want 0 for read-only caller", len(desc.BulkActions))
	}
}

func TestProvider_DescriptorNotFoundAndForbidden(t *testing.T) {
	p, _ := newFixture(t)

	_, err := p.Descriptor(context.Background(), adminCaps(), "nope")
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrNotFound {
		t.Errorf("unknown view err = %v, want NOT_FOUND", err)
	}

	_, err = p.Descriptor(context.Background(), model.CapabilitySet{}, "facilities.parking")
	if !errors.As(err, &envelope) || envelope.Code != model.ErrForbidden {
		t.Errorf("no caps err = %v, want FORBIDDEN", err)
	}
}

func TestProvider_Navigation(t *testing.T) {
	p, _ := newFixture(t)

	tree := p.Navigation(adminCaps())
	if len(tree.Items) != 1 || len(tree.Items[0].Children) != 1 {
		t.Fatalf("tree = %+v, want one domain with one child", tree)
	}
	if tree.Items[0].Children[0].ID != "facilities.parking" {
		t.Errorf("child id = %q", tree.Items[0].Children[0].ID)
	}

	empty := p.Navigation(model.CapabilitySet{})
	if len(empty.Items) != 0 {
		t.Errorf("tree without caps = %+v, want empty", empty)
	}
}

func TestProvider_DataFilterSortPaginate(t *testing.T) {
	p, _ := newFixture(t)
	ctx := context.Background()

	resp, err := p.Data(ctx, adminCaps(), "facilities.parking", model.DataParams{
		Filters:  map[string]string{"status": "occupied"},
		Sort:     "size",
		SortDir:  "desc",
		Page:     1,
		PageSize: 5,
	})
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if resp.Data.PageSize != 5 || resp.Data.Page != 1 {
		t.Errorf("window = page %d size %d", resp.Data.Page, resp.Data.PageSize)
	}
	if resp.Data.TotalCount == 0 {
		t.Fatal("expected occupied slots in the seed data")
	}
	for _, e := range resp.Data.Items {
		if e["status"] != "occupied" {
			t.Errorf("entity %s status = %v, want occupied", e.ID(), e["status"])
		}
	}
	// Descending by size.
	for i := 1; i < len(resp.Data.Items); i++ {
		prev := resp.Data.Items[i-1]["size"].(float64)
		cur := resp.Data.Items[i]["size"].(float64)
		if cur > prev {
			t.Errorf("items not descending by size: %v then %v", prev, cur)
		}
	}
}

func TestProvider_DataClampsOverflowPage(t *testing.T) {
	p, _ := newFixture(t)

	resp, err := p.Data(context.Background(), adminCaps(), "facilities.parking", model.DataParams{
		Page:     99,
		PageSize: 5,
	})
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if resp.Data.Page != resp.Data.TotalPages {
		t.Errorf("page = %d, want clamp to %d", resp.Data.Page, resp.Data.TotalPages)
	}
}

func TestProvider_Stats(t *testing.T) {
	p, _ := newFixture(t)

	resp, err := p.Stats(context.Background(), adminCaps(), "facilities.parking")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if resp.Data["totalSlots"] != 18 {
		t.Errorf("totalSlots = %v, want 18", resp.Data["totalSlots"])
	}
	if resp.Data["occupancyRate"] <= 0 || resp.Data["occupancyRate"] > 100 {
		t.Errorf("occupancyRate = %v, want a percentage", resp.Data["occupancyRate"])
	}
}

func TestProvider_SelectionLifecycle(t *testing.T) {
	p, _ := newFixture(t)
	ctx := context.Background()
	caps := adminCaps()

	resp, err := p.UpdateSelection(ctx, caps, "facilities.parking", model.SelectionRequest{
		Op: model.SelectionOpToggle, ID: "PS-001", Checked: true,
	})
	if err != nil {
		t.Fatalf("UpdateSelection toggle: %v", err)
	}
	if len(resp.Data.IDs) != 1 || resp.Data.IDs[0] != "PS-001" {
		t.Errorf("selection = %v, want [PS-001]", resp.Data.IDs)
	}

	// Selection survives an intervening filtered data request.
	if _, err := p.Data(ctx, caps, "facilities.parking", model.DataParams{
		Filters: map[string]string{"status": "vacant"},
	}); err != nil {
		t.Fatalf("Data: %v", err)
	}
	got, err := p.Selection(ctx, caps, "facilities.parking")
	if err != nil {
		t.Fatalf("Selection: %v", err)
	}
	if len(got.Data.IDs) != 1 {
		t.Errorf("selection after refilter = %v, want [PS-001]", got.Data.IDs)
	}

	resp, err = p.UpdateSelection(ctx, caps, "facilities.parking", model.SelectionRequest{
		Op: model.SelectionOpClear,
	})
	if err != nil {
		t.Fatalf("UpdateSelection clear: %v", err)
	}
	if len(resp.Data.IDs) != 0 {
		t.Errorf("selection after clear = %v, want empty", resp.Data.IDs)
	}
}

func TestProvider_UpdateSelectionRejectsBadOps(t *testing.T) {
	p, _ := newFixture(t)
	ctx := context.Background()

	_, err := p.UpdateSelection(ctx, adminCaps(), "facilities.parking", model.SelectionRequest{Op: "invert"})
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrBadRequest {
		t.Errorf("unknown op err = %v, want BAD_REQUEST", err)
	}

	_, err = p.UpdateSelection(ctx, adminCaps(), "facilities.parking", model.SelectionRequest{Op: model.SelectionOpToggle})
	if !errors.As(err, &envelope) || envelope.Code != model.ErrBadRequest {
		t.Errorf("toggle without id err = %v, want BAD_REQUEST", err)
	}
}

func TestProvider_BulkActionMutatesAndClearsSelection(t *testing.T) {
	p, store := newFixture(t)
	ctx := context.Background()
	caps := adminCaps()

	if _, err := p.UpdateSelection(ctx, caps, "facilities.parking", model.SelectionRequest{
		Op: model.SelectionOpToggle, ID: "PS-001", Checked: true,
	}); err != nil {
		t.Fatalf("UpdateSelection: %v", err)
	}

	resp, err := p.Bulk(ctx, caps, "facilities.parking", model.BulkRequest{Action: "deactivate"})
	if err != nil {
		t.Fatalf("Bulk: %v", err)
	}
	if !resp.Success || resp.Affected != 1 {
		t.Errorf("Bulk = %+v, want success affecting 1", resp)
	}

	snap, _ := store.Snapshot(dataset.ParkingSlots)
	for _, e := range snap {
		if e.ID() == "PS-001" && e["status"] != "inactive" {
			t.Errorf("PS-001 status = %v, want inactive", e["status"])
		}
	}

	sel, _ := p.Selection(ctx, caps, "facilities.parking")
	if len(sel.Data.IDs) != 0 {
		t.Errorf("selection after bulk = %v, want empty", sel.Data.IDs)
	}
}

func TestProvider_BulkRequiresSelectionAndCapability(t *testing.T) {
	p, _ := newFixture(t)
	ctx := context.Background()

	_, err := p.Bulk(ctx, adminCaps(), "facilities.parking", model.BulkRequest{Action: "deactivate"})
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrBadRequest {
		t.Errorf("empty selection err = %v, want BAD_REQUEST", err)
	}

	if _, err := p.UpdateSelection(ctx, readerCaps(), "facilities.parking", model.SelectionRequest{
		Op: model.SelectionOpToggle, ID: "PS-002", Checked: true,
	}); err != nil {
		t.Fatalf("UpdateSelection: %v", err)
	}
	_, err = p.Bulk(ctx, readerCaps(), "facilities.parking", model.BulkRequest{Action: "deactivate"})
	if !errors.As(err, &envelope) || envelope.Code != model.ErrForbidden {
		t.Errorf("unauthorized bulk err = %v, want FORBIDDEN", err)
	}

	_, err = p.Bulk(ctx, adminCaps(), "facilities.parking", model.BulkRequest{Action: "nonexistent"})
	if !errors.As(err, &envelope) || envelope.Code != model.ErrBadRequest {
		t.Errorf("unknown action err = %v, want BAD_REQUEST", err)
	}
}
