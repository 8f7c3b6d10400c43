// Package telemetry provides application-level observability for the
// reference-data registry.
//
// All metrics are registered against the default Prometheus registry and are
// served on the side-channel HTTP server started by main.go:
//
//	GET http://<host>:<GEO_TELEMETRY_PROMETHEUS_PORT>/metrics
//
// Default port: 9090. The endpoint is not part of the Gin router so it stays
// off the public ingress and outside the rate-limiting middleware.
//
// HTTP metrics use c.FullPath() (route template such as /api/v1/cities/:id)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments.
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/geodata-registry/geodata-registry/internal/safego"
)

// HTTP metrics, labelled by method, route template, and status code.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - p99 latency per route:             histogram_quantile(0.99, sum by (path, le) (rate(http_request_duration_seconds_bucket[5m])))
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Mutation metrics, incremented by the write services after a successful
// commit, so the counters never include rolled-back operations.
//
// EntityMutationsTotal is labelled {entity, event}: entity is country/state/city,
// event is CREATE/UPDATE/DELETE. EventLogWritesTotal counts committed event-log
// rows; it should track sum(entity_mutations_total) exactly, so divergence
// between the two signals that the outbox invariant broke.
//
// Example PromQL queries:
//   - Mutation rate by entity:  sum by (entity) (rate(entity_mutations_total[5m]))
//   - Outbox divergence alert:  sum(entity_mutations_total) - sum(event_log_writes_total) != 0
var (
	EntityMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_mutations_total",
			Help: "Total number of committed entity mutations, by entity type and event type.",
		},
		[]string{"entity", "event"},
	)

	EventLogWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_log_writes_total",
			Help: "Total number of event log rows committed alongside entity mutations.",
		},
	)
)

// DBOpenConnections is a Gauge that tracks the number of open connections
// currently held by the sql.DB connection pool. It is sampled every 30 seconds
// by StartDBStatsCollector rather than per-request to avoid the overhead of
// sql.DB.Stats().
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB
// connection pool statistics every 30 seconds and updates the
// DBOpenConnections gauge. The goroutine exits cleanly when the database
// becomes unreachable (db.Ping fails), which happens automatically when the
// application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database.DB)
func StartDBStatsCollector(db *sql.DB) {
	safego.Go("db stats collector", func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	})
}
