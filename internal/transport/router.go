package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/verandahq/veranda/internal/config"
	"github.com/verandahq/veranda/internal/observability"
	"github.com/verandahq/veranda/internal/view"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Views        *view.Provider
	Lookups      *view.LookupProvider
	ReadyChecks  observability.ReadinessChecks
	Authenticate func(http.Handler) http.Handler
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, and metrics endpoints bypass the
// authentication middleware.
func NewRouter(deps Dependencies) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(logger))
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)

	// Public routes — bypass authentication.
	r.Get("/ui/health", observability.HandleHealth())
	r.Get("/ui/ready", observability.HandleReady(deps.ReadyChecks))
	if deps.Config.Observability.Metrics.Enabled {
		path := deps.Config.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, observability.Handler())
	}

	// Authenticated routes — full middleware chain.
	auth := deps.Authenticate
	if auth == nil {
		auth = func(next http.Handler) http.Handler { return next }
	}

	r.Group(func(r chi.Router) {
		r.Use(observability.TracingMiddleware)
		if deps.Metrics != nil {
			r.Use(deps.Metrics.MetricsMiddleware)
		}
		r.Use(auth)
		r.Use(BuildRequestContext)
		r.Use(ResolveCapabilities)
		r.Use(HandlerTimeout(deps.Config.Server.HandlerTimeout))
		r.Use(RequestLogging(logger))

		r.Get("/ui/navigation", handleNavigation(deps.Views))
		r.Get("/ui/views/{viewId}", handleGetView(deps.Views))
		r.Get("/ui/views/{viewId}/data", handleGetViewData(deps.Views, deps.Metrics))
		r.Get("/ui/views/{viewId}/stats", handleGetViewStats(deps.Views, deps.Metrics))
		r.Get("/ui/views/{viewId}/selection", handleGetSelection(deps.Views))
		r.Post("/ui/views/{viewId}/selection", handleUpdateSelection(deps.Views, deps.Metrics))
		r.Post("/ui/views/{viewId}/bulk", handleBulkAction(deps.Views, deps.Lookups, deps.Metrics, logger))
		r.Get("/ui/lookups/{viewId}/{field}", handleLookup(deps.Lookups, deps.Metrics))
	})

	return r
}
