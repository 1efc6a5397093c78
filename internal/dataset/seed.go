package dataset

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verandahq/veranda/model"
)

// Dataset names referenced by view definitions.
const (
	ParkingSlots        = "parking_slots"
	Units               = "units"
	MaintenanceRequests = "maintenance_requests"
	Polls               = "polls"
	VendorContracts     = "vendor_contracts"
	ActivityLog         = "activity_log"
)

// entityID derives a stable UUID from the dataset name and ordinal, so
// repeated seeding produces identical collections.
func entityID(dataset string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", dataset, n))).String()
}

// Seed populates the store with every dataset the bundled definitions
// reference. All timestamps are derived from now, so recency metrics have
// data in range regardless of when the console starts.
func Seed(s *Store, now time.Time) {
	s.Replace(ParkingSlots, seedParkingSlots(now))
	s.Replace(Units, seedUnits(now))
	s.Replace(MaintenanceRequests, seedMaintenanceRequests(now))
	s.Replace(Polls, seedPolls(now))
	s.Replace(VendorContracts, seedVendorContracts(now))
	s.Replace(ActivityLog, seedActivityLog(now))
}

var residents = []struct {
	Name string
	Unit string
}{
	{"Priya Nair", "A-301"},
	{"Rahul Mehta", "B-204"},
	{"Anita Desai", "A-502"},
	{"Vikram Rao", "C-101"},
	{"Sunita Iyer", "B-403"},
	{"Arjun Kulkarni", "C-305"},
}

func seedParkingSlots(now time.Time) []model.Entity {
	buildings := []string{"Tower A", "Tower B", "Tower C"}
	sizes := []float64{300, 500, 800}

	out := make([]model.Entity, 0, 18)
	for i := 0; i < 18; i++ {
		e := model.Entity{
			"id":     fmt.Sprintf("PS-%03d", i+1),
			"status": "vacant",
			"size":   sizes[i%len(sizes)],
			"location": map[string]any{
				"building": buildings[i%len(buildings)],
				"level":    fmt.Sprintf("P%d", i%2+1),
			},
		}
		// Every second slot is occupied by a resident.
		if i%2 == 0 {
			r := residents[(i/2)%len(residents)]
			e["status"] = "occupied"
			e["assignedTo"] = map[string]any{"name": r.Name, "unit": r.Unit}
			e["assignedAt"] = now.AddDate(0, 0, -(i*7 + 3)).Format(time.RFC3339)
		}
		if i == 13 {
			e["status"] = "maintenance"
		}
		out = append(out, e)
	}
	return out
}

func seedUnits(now time.Time) []model.Entity {
	types := []string{"2bhk", "3bhk", "4bhk"}
	areas := []float64{950, 1280, 1650}

	out := make([]model.Entity, 0, 12)
	for i := 0; i < 12; i++ {
		r := residents[i%len(residents)]
		e := model.Entity{
			"id":     fmt.Sprintf("U-%03d", i+1),
			"number": r.Unit,
			"tower":  string(rune('A' + i%3)),
			"floor":  float64(i%5 + 1),
			"type":   types[i%len(types)],
			"area":   areas[i%len(areas)],
			"status": "occupied",
			"owner": map[string]any{
				"name":  r.Name,
				"email": fmt.Sprintf("owner%d@example.com", i+1),
			},
			"residents":      float64(i%4 + 1),
			"maintenanceDue": float64((i % 3) * 2500),
		}
		if i%5 == 4 {
			e["status"] = "vacant"
			delete(e, "owner")
			e["residents"] = float64(0)
		}
		out = append(out, e)
	}
	return out
}

func seedMaintenanceRequests(now time.Time) []model.Entity {
	titles := []string{
		"Leaking pipe in basement",
		"Broken elevator door",
		"Corridor light flickering",
		"Kitchen sink blocked",
		"Gym AC not cooling",
		"Water seepage in parking",
		"Intercom not working",
		"Garden sprinkler damaged",
		"Lobby tile cracked",
		"Fire alarm false triggers",
	}
	categories := []string{"plumbing", "electrical", "civil", "hvac", "security"}
	statuses := []string{"open", "in_progress", "resolved", "open"}
	priorities := []string{"high", "medium", "low"}
	tagSets := [][]any{
		{"Basement", "Plumbing"},
		{"Elevator", "Urgent"},
		{"Electrical"},
		{"Kitchen-Sink", "Plumbing"},
		{"Gym", "HVAC"},
	}

	out := make([]model.Entity, 0, len(titles))
	for i, title := range titles {
		status := statuses[i%len(statuses)]
		e := model.Entity{
			"id":          fmt.Sprintf("MR-%04d", i+1),
			"title":       title,
			"description": fmt.Sprintf("Reported by resident of %s", residents[i%len(residents)].Unit),
			"status":      status,
			"priority":    priorities[i%len(priorities)],
			"category":    categories[i%len(categories)],
			"tags":        tagSets[i%len(tagSets)],
			"location": map[string]any{
				"building": string(rune('A' + i%3)),
			},
			"createdAt": now.AddDate(0, 0, -(i*4 + 1)).Format(time.RFC3339),
			"cost":      float64((i%4 + 1) * 1500),
		}
		if status != "open" {
			e["assignedTo"] = map[string]any{"name": residents[(i+2)%len(residents)].Name}
		}
		if status == "resolved" {
			e["resolvedAt"] = now.AddDate(0, 0, -i).Format(time.RFC3339)
		}
		out = append(out, e)
	}
	return out
}

func seedPolls(now time.Time) []model.Entity {
	titles := []string{
		"Annual general meeting date",
		"Garden renovation budget",
		"New gym equipment",
		"Diwali event planning",
		"Visitor parking policy",
		"Pet policy amendment",
	}
	statuses := []string{"active", "closed", "active", "draft", "closed", "active"}

	out := make([]model.Entity, 0, len(titles))
	for i, title := range titles {
		e := model.Entity{
			"id":             entityID(Polls, i),
			"title":          title,
			"status":         statuses[i],
			"createdAt":      now.AddDate(0, 0, -(i*10 + 2)).Format(time.RFC3339),
			"closesAt":       now.AddDate(0, 0, 14-i*10).Format(time.RFC3339),
			"votes":          float64(i * 23),
			"eligibleVoters": float64(120),
			"createdBy":      map[string]any{"name": residents[i%len(residents)].Name},
		}
		if statuses[i] == "draft" {
			e["votes"] = float64(0)
		}
		out = append(out, e)
	}
	return out
}

func seedVendorContracts(now time.Time) []model.Entity {
	vendors := []struct {
		Name    string
		Service string
		Value   float64
	}{
		{"SparkleClean Services", "housekeeping", 240000},
		{"GreenLeaf Landscaping", "gardening", 96000},
		{"SecureWatch Pvt Ltd", "security", 540000},
		{"AquaPure Systems", "water treatment", 130000},
		{"LiftCare Engineers", "elevator maintenance", 180000},
		{"PestAway Solutions", "pest control", 48000},
		{"VoltSafe Electricals", "electrical maintenance", 150000},
	}
	statuses := []string{"active", "active", "active", "expired", "active", "pending", "expired"}

	out := make([]model.Entity, 0, len(vendors))
	for i, v := range vendors {
		e := model.Entity{
			"id": entityID(VendorContracts, i),
			"vendor": map[string]any{
				"name":    v.Name,
				"contact": fmt.Sprintf("+91-98%08d", i*11111),
			},
			"service":   v.Service,
			"status":    statuses[i],
			"value":     v.Value,
			"startDate": now.AddDate(-1, i, 0).Format("2006-01-02"),
			"endDate":   now.AddDate(0, i+1, 0).Format("2006-01-02"),
		}
		if statuses[i] == "expired" {
			e["endDate"] = now.AddDate(0, -(i + 1), 0).Format("2006-01-02")
		}
		out = append(out, e)
	}
	return out
}

func seedActivityLog(now time.Time) []model.Entity {
	actions := []struct {
		Action   string
		Target   string
		Severity string
	}{
		{"resident.checkin", "gate-1", "info"},
		{"invoice.generated", "U-004", "info"},
		{"complaint.escalated", "MR-0002", "warning"},
		{"gate.forced_open", "gate-3", "critical"},
		{"poll.closed", "garden-renovation", "info"},
		{"vendor.payment", "SecureWatch Pvt Ltd", "info"},
		{"visitor.overstay", "gate-2", "warning"},
		{"backup.completed", "console-db", "info"},
	}

	out := make([]model.Entity, 0, 24)
	for i := 0; i < 24; i++ {
		a := actions[i%len(actions)]
		r := residents[i%len(residents)]
		out = append(out, model.Entity{
			"id":         entityID(ActivityLog, i),
			"actor":      map[string]any{"name": r.Name, "role": "resident"},
			"action":     a.Action,
			"target":     a.Target,
			"severity":   a.Severity,
			"occurredAt": now.Add(-time.Duration(i*7) * time.Hour).Format(time.RFC3339),
		})
	}
	return out
}
