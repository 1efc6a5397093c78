package view

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/verandahq/veranda/internal/collection"
	"github.com/verandahq/veranda/internal/dataset"
	"github.com/verandahq/veranda/internal/definition"
	"github.com/verandahq/veranda/model"
)

// LookupProvider serves the distinct values of a field within a view's
// dataset, with TTL caching. Filter dropdowns without static options are
// populated from these lookups.
type LookupProvider struct {
	registry   *definition.Registry
	store      *dataset.Store
	defaultTTL time.Duration
	maxEntries int

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	options   []model.OptionDescriptor
	expiresAt time.Time
}

// NewLookupProvider creates a new LookupProvider.
func NewLookupProvider(registry *definition.Registry, store *dataset.Store, defaultTTL time.Duration, maxEntries int) *LookupProvider {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &LookupProvider{
		registry:   registry,
		store:      store,
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		cache:      make(map[string]cacheEntry),
	}
}

// GetLookup returns the distinct values of a field in the view's dataset as
// an option list, optionally narrowed by a query string.
func (lp *LookupProvider) GetLookup(ctx context.Context, caps model.CapabilitySet, viewID, field, query string) (model.LookupResponse, error) {
	def, ok := lp.registry.GetView(viewID)
	if !ok {
		return model.LookupResponse{}, model.NewNotFoundError(
			fmt.Sprintf("view %q not found", viewID),
		)
	}
	if len(def.Capabilities) > 0 && !caps.HasAll(def.Capabilities...) {
		return model.LookupResponse{}, model.NewForbiddenError(
			fmt.Sprintf("insufficient capabilities for view %q", viewID),
		)
	}

	cacheKey := fmt.Sprintf("lookup:%s:%s", viewID, field)

	if options, hit := lp.getFromCache(cacheKey); hit {
		return model.LookupResponse{
			Data: model.LookupPayload{Options: filterOptions(options, query)},
			Meta: map[string]any{"cached": true},
		}, nil
	}

	options, err := lp.collectDistinct(def.Dataset, field)
	if err != nil {
		return model.LookupResponse{}, err
	}

	lp.putInCache(cacheKey, options)

	return model.LookupResponse{
		Data: model.LookupPayload{Options: filterOptions(options, query)},
		Meta: map[string]any{"cached": false},
	}, nil
}

// Invalidate removes all cached lookups for a view. Bulk mutations call this
// so dropdowns never serve stale values.
func (lp *LookupProvider) Invalidate(viewID string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	for k := range lp.cache {
		if strings.HasPrefix(k, "lookup:"+viewID+":") {
			delete(lp.cache, k)
		}
	}
}

// CacheLen returns the number of entries in the cache. For testing.
func (lp *LookupProvider) CacheLen() int {
	lp.mu.RLock()
	defer lp.mu.RUnlock()
	return len(lp.cache)
}

func (lp *LookupProvider) getFromCache(key string) ([]model.OptionDescriptor, bool) {
	lp.mu.RLock()
	defer lp.mu.RUnlock()

	entry, exists := lp.cache[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.options, true
}

func (lp *LookupProvider) putInCache(key string, options []model.OptionDescriptor) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if len(lp.cache) >= lp.maxEntries {
		lp.evictExpired()
	}

	lp.cache[key] = cacheEntry{
		options:   options,
		expiresAt: time.Now().Add(lp.defaultTTL),
	}
}

// evictExpired removes expired entries. Must be called with mu held.
func (lp *LookupProvider) evictExpired() {
	now := time.Now()
	for k, v := range lp.cache {
		if now.After(v.expiresAt) {
			delete(lp.cache, k)
		}
	}
}

// collectDistinct walks the dataset and gathers the distinct string forms of
// the field, sorted. Absent values are skipped.
func (lp *LookupProvider) collectDistinct(datasetName, field string) ([]model.OptionDescriptor, error) {
	entities, ok := lp.store.Snapshot(datasetName)
	if !ok {
		return nil, model.NewNotFoundError(
			fmt.Sprintf("dataset %q not found", datasetName),
		)
	}

	seen := make(map[string]struct{})
	for _, e := range entities {
		v := collection.Resolve(e, field)
		if collection.IsAbsent(v) {
			continue
		}
		if s := collection.StringForm(v); s != "" {
			seen[s] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	options := make([]model.OptionDescriptor, 0, len(values))
	for _, v := range values {
		options = append(options, model.OptionDescriptor{Label: v, Value: v})
	}
	return options, nil
}

// filterOptions filters options by query (case-insensitive match on label).
func filterOptions(options []model.OptionDescriptor, query string) []model.OptionDescriptor {
	if query == "" {
		return options
	}

	q := strings.ToLower(query)
	var filtered []model.OptionDescriptor
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Label), q) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}
