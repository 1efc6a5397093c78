package transport

import (
	"net/http"

	"github.com/verandahq/veranda/internal/view"
	"github.com/verandahq/veranda/model"
)

func handleNavigation(views *view.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}
		caps := CapabilitiesFrom(r.Context())

		tree := views.Navigation(caps)
		WriteJSON(w, http.StatusOK, tree)
	}
}
