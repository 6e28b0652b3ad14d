// Package metrics provides Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled bool

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	// Resolver domain metrics
	configResolveTotal *prometheus.CounterVec

	// Verifier domain metrics
	paymentVerifyTotal  *prometheus.CounterVec
	ledgerFetchDuration *prometheus.HistogramVec
)

// Init initializes the metrics system.
func Init(enabledFlag bool) {
	enabled = enabledFlag

	if !enabled {
		return
	}

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	configResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_resolve_total",
			Help: "Total number of API key to service-config resolutions",
		},
		[]string{"status"},
	)

	paymentVerifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_total",
			Help: "Total number of payment verification requests",
		},
		[]string{"result"},
	)

	ledgerFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_fetch_duration_seconds",
			Help:    "Latency of finalized transaction fetches from the ledger RPC",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// Go runtime metrics (goroutines, memory, GC) are collected by
	// prometheus/client_golang automatically.
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	if !enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.Handler()
}

// Enabled returns whether metrics are enabled.
func Enabled() bool {
	return enabled
}
