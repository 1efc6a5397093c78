package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/verandahq/veranda/internal/observability"
	"github.com/verandahq/veranda/internal/view"
	"github.com/verandahq/veranda/model"
)

func handleBulkAction(views *view.Provider, lookups *view.LookupProvider, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())
		viewID := chi.URLParam(r, "viewId")

		var req model.BulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("Invalid request body"))
			return
		}
		if req.Action == "" {
			WriteError(w, model.NewBadRequestError("Action is required"))
			return
		}

		log := observability.RequestLogger(r.Context(), logger)
		log.Info("bulk action dispatched",
			zap.String("view_id", viewID),
			zap.String("action", req.Action),
		)
		log.Debug("bulk payload",
			zap.Any("payload", observability.RedactBody(req.Payload, nil)),
		)

		start := time.Now()
		resp, err := views.Bulk(r.Context(), caps, viewID, req)
		if metrics != nil {
			status := "success"
			if err != nil {
				status = "failure"
			}
			metrics.RecordBulkAction(viewID, req.Action, status, time.Since(start))
		}
		if err != nil {
			log.Warn("bulk action failed",
				zap.String("view_id", viewID),
				zap.String("action", req.Action),
				zap.Error(err),
			)
			WriteError(w, err)
			return
		}

		// Mutations invalidate cached lookup options for the view.
		if lookups != nil {
			lookups.Invalidate(viewID)
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}
