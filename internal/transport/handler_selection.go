package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verandahq/veranda/internal/observability"
	"github.com/verandahq/veranda/internal/view"
	"github.com/verandahq/veranda/model"
)

func handleGetSelection(views *view.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())
		viewID := chi.URLParam(r, "viewId")

		resp, err := views.Selection(r.Context(), caps, viewID)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func handleUpdateSelection(views *view.Provider, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())
		viewID := chi.URLParam(r, "viewId")

		var req model.SelectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("Invalid request body"))
			return
		}

		resp, err := views.UpdateSelection(r.Context(), caps, viewID, req)
		if err != nil {
			WriteError(w, err)
			return
		}
		if metrics != nil {
			metrics.RecordSelectionOp(viewID, req.Op)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
