// Package metrics exposes Prometheus collectors for route calculation,
// caching, and pathfinding instrumentation.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the global metric container.
type Metrics struct {
	// Request metrics
	RouteRequestsTotal    *prometheus.CounterVec
	RouteRequestDuration  *prometheus.HistogramVec
	RouteRequestsInFlight prometheus.Gauge

	// Business metrics
	CandidatesEvaluated  *prometheus.HistogramVec
	PathfindingDuration  *prometheus.HistogramVec
	NodesExpanded        *prometheus.HistogramVec
	CacheOperationsTotal *prometheus.CounterVec
	PortLookupsTotal     *prometheus.CounterVec
	GraphPorts           prometheus.Gauge
	GraphEdges           prometheus.Gauge

	// Service information
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics registers and returns the metric set.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		RouteRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_requests_total",
				Help:      "Total number of route calculation requests",
			},
			[]string{"criterion", "status"},
		),

		RouteRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_request_duration_seconds",
				Help:      "Duration of route calculation requests",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"criterion"},
		),

		RouteRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_requests_in_flight",
				Help:      "Current number of route requests being processed",
			},
		),

		CandidatesEvaluated: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_candidates_evaluated",
				Help:      "Number of candidate routes evaluated per request",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"criterion"},
		),

		PathfindingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pathfinding_duration_seconds",
				Help:      "Duration of single pathfinding runs",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"algorithm"},
		),

		NodesExpanded: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pathfinding_nodes_expanded",
				Help:      "Number of nodes expanded per pathfinding run",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"algorithm"},
		),

		CacheOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_operations_total",
				Help:      "Cache operations by tier and outcome",
			},
			[]string{"tier", "operation", "outcome"},
		),

		PortLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "port_lookups_total",
				Help:      "Port store lookups by outcome",
			},
			[]string{"operation", "outcome"},
		),

		GraphPorts: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_ports",
				Help:      "Number of ports in the current graph snapshot",
			},
		),

		GraphEdges: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_edges",
				Help:      "Number of directed edges in the current graph snapshot",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	// Runtime stats ride along with the domain metrics.
	if err := prometheus.DefaultRegisterer.Register(NewRuntimeCollector(namespace, "runtime")); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			panic(err)
		}
	}

	defaultMetrics = m
	return m
}

// Get returns the global metric set.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("seaway", "")
	}
	return defaultMetrics
}

// RecordRouteRequest records the outcome of a route calculation.
func (m *Metrics) RecordRouteRequest(criterion, status string, duration time.Duration) {
	m.RouteRequestsTotal.WithLabelValues(criterion, status).Inc()
	m.RouteRequestDuration.WithLabelValues(criterion).Observe(duration.Seconds())
}

// RecordCandidates records the number of candidates evaluated for a request.
func (m *Metrics) RecordCandidates(criterion string, count int) {
	m.CandidatesEvaluated.WithLabelValues(criterion).Observe(float64(count))
}

// RecordPathfinding records a single pathfinding run.
func (m *Metrics) RecordPathfinding(algorithm string, duration time.Duration, nodesExpanded int) {
	m.PathfindingDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	m.NodesExpanded.WithLabelValues(algorithm).Observe(float64(nodesExpanded))
}

// RecordCacheOperation records a cache operation by tier.
func (m *Metrics) RecordCacheOperation(tier, operation, outcome string) {
	m.CacheOperationsTotal.WithLabelValues(tier, operation, outcome).Inc()
}

// RecordPortLookup records a port store call.
func (m *Metrics) RecordPortLookup(operation, outcome string) {
	m.PortLookupsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordGraphSize records the current graph snapshot size.
func (m *Metrics) RecordGraphSize(ports, edges int) {
	m.GraphPorts.Set(float64(ports))
	m.GraphEdges.Set(float64(edges))
}

// SetServiceInfo sets the service information gauge.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer starts the HTTP server exposing metrics.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // health endpoint, write error is not actionable
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
