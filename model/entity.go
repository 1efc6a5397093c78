package model

// Entity is one record in a managed collection: a parking slot, a society
// unit, a maintenance request, a poll, a vendor contract, or an activity log
// entry. Field values are heterogeneous (string, float64, time.Time, nested
// map, slice) and are addressed by dotted field paths such as
// "assignedTo.name" or "location.floor".
//
// The collection engine is generic over entity shape; the only structural
// requirement is a stable string identity under the "id" key, used for
// selection tracking across filter, sort, and page changes.
type Entity map[string]any

// ID returns the entity's stable identity, or "" when absent. Entities
// without an id cannot participate in selection but flow through filtering,
// sorting, and aggregation normally.
func (e Entity) ID() string {
	id, _ := e["id"].(string)
	return id
}

// Clone returns a shallow copy of the entity. Nested maps and slices are
// shared; callers that mutate nested values must copy those themselves.
func (e Entity) Clone() Entity {
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
