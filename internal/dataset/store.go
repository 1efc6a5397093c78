// Package dataset holds the working entity collections behind every view and
// applies bulk mutations to them. Collections are seeded in memory; the store
// is the single writer, so views always read a consistent snapshot.
package dataset

import (
	"context"
	"fmt"
	"sync"

	"github.com/verandahq/veranda/model"
)

// Store is a thread-safe container of named entity collections.
type Store struct {
	mu   sync.RWMutex
	sets map[string][]model.Entity

	// exports records export requests for inspection; the console serves the
	// file asynchronously.
	exports []ExportRecord
}

// ExportRecord captures one export bulk action.
type ExportRecord struct {
	Dataset string
	IDs     []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sets: make(map[string][]model.Entity)}
}

// Replace swaps the named collection wholesale.
func (s *Store) Replace(name string, entities []model.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[name] = append([]model.Entity(nil), entities...)
}

// Snapshot returns a copy of the named collection. Entities are cloned so
// callers can never mutate store state through a snapshot.
func (s *Store) Snapshot(name string) ([]model.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities, ok := s.sets[name]
	if !ok {
		return nil, false
	}
	out := make([]model.Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out, true
}

// Datasets returns the names of all loaded collections.
func (s *Store) Datasets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.sets))
	for name := range s.sets {
		names = append(names, name)
	}
	return names
}

// Exports returns all recorded export requests.
func (s *Store) Exports() []ExportRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ExportRecord(nil), s.exports...)
}

// ApplyBulk applies the named action to the given ids within one collection
// and returns the number of entities actually touched. IDs not present in
// the collection are skipped. Unknown actions are an error and leave the
// collection untouched.
func (s *Store) ApplyBulk(ctx context.Context, dataset, action string, ids []string, payload map[string]any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entities, ok := s.sets[dataset]
	if !ok {
		return 0, fmt.Errorf("unknown dataset %q", dataset)
	}

	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	switch action {
	case model.BulkActionActivate:
		return setStatus(entities, selected, "active"), nil

	case model.BulkActionDeactivate:
		return setStatus(entities, selected, "inactive"), nil

	case model.BulkActionMaintenance:
		return setStatus(entities, selected, "maintenance"), nil

	case model.BulkActionDelete:
		kept := entities[:0]
		removed := 0
		for _, e := range entities {
			if selected[e.ID()] {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		s.sets[dataset] = kept
		return removed, nil

	case model.BulkActionAssign:
		assignee, ok := payload["assignee"].(map[string]any)
		if !ok || len(assignee) == 0 {
			return 0, fmt.Errorf("assign action requires an assignee payload")
		}
		n := 0
		for _, e := range entities {
			if !selected[e.ID()] {
				continue
			}
			e["assignedTo"] = assignee
			n++
		}
		return n, nil

	case model.BulkActionExport:
		n := 0
		for _, e := range entities {
			if selected[e.ID()] {
				n++
			}
		}
		s.exports = append(s.exports, ExportRecord{Dataset: dataset, IDs: append([]string(nil), ids...)})
		return n, nil

	default:
		return 0, fmt.Errorf("unknown bulk action %q", action)
	}
}

func setStatus(entities []model.Entity, selected map[string]bool, status string) int {
	n := 0
	for _, e := range entities {
		if !selected[e.ID()] {
			continue
		}
		e["status"] = status
		n++
	}
	return n
}
