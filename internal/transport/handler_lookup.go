package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verandahq/veranda/internal/observability"
	"github.com/verandahq/veranda/internal/view"
	"github.com/verandahq/veranda/model"
)

func handleLookup(lookups *view.LookupProvider, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())
		viewID := chi.URLParam(r, "viewId")
		field := chi.URLParam(r, "field")
		query := r.URL.Query().Get("q")

		resp, err := lookups.GetLookup(r.Context(), caps, viewID, field, query)
		if err != nil {
			WriteError(w, err)
			return
		}
		if metrics != nil {
			if cached, _ := resp.Meta["cached"].(bool); cached {
				metrics.RecordLookupCacheHit(viewID)
			} else {
				metrics.RecordLookupCacheMiss(viewID)
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
