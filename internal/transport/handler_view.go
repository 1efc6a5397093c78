package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verandahq/veranda/internal/observability"
	"github.com/verandahq/veranda/internal/view"
	"github.com/verandahq/veranda/model"
)

func handleGetView(views *view.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())
		viewID := chi.URLParam(r, "viewId")

		desc, err := views.Descriptor(r.Context(), caps, viewID)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, desc)
	}
}

func handleGetViewData(views *view.Provider, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())
		viewID := chi.URLParam(r, "viewId")

		params := model.DataParams{
			Page:     queryInt(r, "page", 0),
			PageSize: queryInt(r, "page_size", 0),
			Sort:     r.URL.Query().Get("sort"),
			SortDir:  r.URL.Query().Get("sort_dir"),
			Filters:  queryMap(r, "filter"),
			Query:    r.URL.Query().Get("q"),
		}

		start := time.Now()
		data, err := views.Data(r.Context(), caps, viewID, params)
		if metrics != nil {
			status := "success"
			if err != nil {
				status = "error"
			}
			metrics.RecordViewQuery(viewID, status, time.Since(start))
		}
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, data)
	}
}

func handleGetViewStats(views *view.Provider, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())
		viewID := chi.URLParam(r, "viewId")

		start := time.Now()
		stats, err := views.Stats(r.Context(), caps, viewID)
		if err != nil {
			WriteError(w, err)
			return
		}
		if metrics != nil {
			metrics.RecordStatsCompute(viewID, time.Since(start))
		}
		WriteJSON(w, http.StatusOK, stats)
	}
}

// queryInt extracts an integer query param with a default.
func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// queryMap extracts all query params with a given prefix as a map.
// e.g., filter[status]=active → {"status": "active"}
func queryMap(r *http.Request, prefix string) map[string]string {
	result := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(key) > len(prefix)+2 && key[:len(prefix)+1] == prefix+"[" && key[len(key)-1] == ']' {
			field := key[len(prefix)+1 : len(key)-1]
			if len(values) > 0 {
				result[field] = values[0]
			}
		}
	}
	return result
}
