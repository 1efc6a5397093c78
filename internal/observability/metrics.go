package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets   = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	engineDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1}
	bodySizeBuckets       = []float64{100, 1024, 10240, 102400, 1048576}
)

// Metrics holds all Prometheus metric instruments for the console.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSizeBytes  *prometheus.HistogramVec
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// View metrics
	ViewQueriesTotal   *prometheus.CounterVec
	ViewQueryDuration  *prometheus.HistogramVec
	StatsComputeDuration *prometheus.HistogramVec

	// Selection and bulk metrics
	SelectionOpsTotal *prometheus.CounterVec
	BulkActionsTotal  *prometheus.CounterVec
	BulkActionDuration *prometheus.HistogramVec

	// Cache metrics
	LookupCacheHitsTotal   *prometheus.CounterVec
	LookupCacheMissesTotal *prometheus.CounterVec

	// System metrics
	DefinitionReloadTotal *prometheus.CounterVec
	DefinitionsLoaded     prometheus.Gauge
	DatasetEntities       *prometheus.GaugeVec
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veranda_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veranda_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPRequestSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veranda_http_request_size_bytes",
			Help:    "HTTP request body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPResponseSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veranda_http_response_size_bytes",
			Help:    "HTTP response body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),

		// Views
		ViewQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veranda_view_queries_total",
			Help: "Total number of view data queries.",
		}, []string{"view_id", "status"}),
		ViewQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veranda_view_query_duration_seconds",
			Help:    "View data query duration in seconds.",
			Buckets: engineDurationBuckets,
		}, []string{"view_id"}),
		StatsComputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veranda_stats_compute_duration_seconds",
			Help:    "Statistics recomputation duration in seconds.",
			Buckets: engineDurationBuckets,
		}, []string{"view_id"}),

		// Selection and bulk
		SelectionOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veranda_selection_ops_total",
			Help: "Total number of selection operations.",
		}, []string{"view_id", "op"}),
		BulkActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veranda_bulk_actions_total",
			Help: "Total number of bulk action dispatches.",
		}, []string{"view_id", "action", "status"}),
		BulkActionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veranda_bulk_action_duration_seconds",
			Help:    "Bulk action dispatch duration in seconds.",
			Buckets: engineDurationBuckets,
		}, []string{"view_id", "action"}),

		// Cache
		LookupCacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veranda_lookup_cache_hits_total",
			Help: "Total lookup cache hits.",
		}, []string{"view_id"}),
		LookupCacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veranda_lookup_cache_misses_total",
			Help: "Total lookup cache misses.",
		}, []string{"view_id"}),

		// System
		DefinitionReloadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veranda_definition_reload_total",
			Help: "Total definition reloads.",
		}, []string{"status"}),
		DefinitionsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "veranda_definitions_loaded",
			Help: "Number of loaded domain definitions.",
		}),
		DatasetEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "veranda_dataset_entities",
			Help: "Number of entities per dataset.",
		}, []string{"dataset"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSizeBytes,
		m.HTTPResponseSizeBytes,
		m.ViewQueriesTotal,
		m.ViewQueryDuration,
		m.StatsComputeDuration,
		m.SelectionOpsTotal,
		m.BulkActionsTotal,
		m.BulkActionDuration,
		m.LookupCacheHitsTotal,
		m.LookupCacheMissesTotal,
		m.DefinitionReloadTotal,
		m.DefinitionsLoaded,
		m.DatasetEntities,
	)

	return m
}

// --- Recording helpers ---

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration, reqSize, respSize int) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
	m.HTTPRequestSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(reqSize))
	m.HTTPResponseSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(respSize))
}

// RecordViewQuery records a view data query.
func (m *Metrics) RecordViewQuery(viewID, status string, duration time.Duration) {
	m.ViewQueriesTotal.WithLabelValues(viewID, status).Inc()
	m.ViewQueryDuration.WithLabelValues(viewID).Observe(duration.Seconds())
}

// RecordStatsCompute records a statistics recomputation.
func (m *Metrics) RecordStatsCompute(viewID string, duration time.Duration) {
	m.StatsComputeDuration.WithLabelValues(viewID).Observe(duration.Seconds())
}

// RecordSelectionOp records a selection operation.
func (m *Metrics) RecordSelectionOp(viewID, op string) {
	m.SelectionOpsTotal.WithLabelValues(viewID, op).Inc()
}

// RecordBulkAction records a bulk action dispatch.
func (m *Metrics) RecordBulkAction(viewID, action, status string, duration time.Duration) {
	m.BulkActionsTotal.WithLabelValues(viewID, action, status).Inc()
	m.BulkActionDuration.WithLabelValues(viewID, action).Observe(duration.Seconds())
}

// RecordLookupCacheHit records a lookup cache hit.
func (m *Metrics) RecordLookupCacheHit(viewID string) {
	m.LookupCacheHitsTotal.WithLabelValues(viewID).Inc()
}

// RecordLookupCacheMiss records a lookup cache miss.
func (m *Metrics) RecordLookupCacheMiss(viewID string) {
	m.LookupCacheMissesTotal.WithLabelValues(viewID).Inc()
}

// RecordDefinitionReload records a definition reload.
func (m *Metrics) RecordDefinitionReload(status string) {
	m.DefinitionReloadTotal.WithLabelValues(status).Inc()
}

// SetDefinitionsLoaded sets the number of loaded definitions.
func (m *Metrics) SetDefinitionsLoaded(count float64) {
	m.DefinitionsLoaded.Set(count)
}

// SetDatasetEntities sets the entity count for a dataset.
func (m *Metrics) SetDatasetEntities(dataset string, count float64) {
	m.DatasetEntities.WithLabelValues(dataset).Set(count)
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		pathPattern := routePattern(r)
		reqSize := 0
		if r.ContentLength > 0 {
			reqSize = int(r.ContentLength)
		}

		m.RecordHTTPRequest(r.Method, pathPattern, sw.status, duration, reqSize, sw.bytes)
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture status and bytes.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
