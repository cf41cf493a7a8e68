package server

import (
	"github.com/VictoriaMetrics/metrics"
	"io"
	"net/http"
	"sync/atomic"
)

// Process wide counters, exposed in the prometheus text format on /metrics
var (
	sessionsTotal       = metrics.NewCounter(`pricerproxy_sessions_total`)
	dialFailuresTotal   = metrics.NewCounter(`pricerproxy_pricer_dial_failures_total`)
	requestsTotal       = metrics.NewCounter(`pricerproxy_requests_total`)
	badRequestsTotal    = metrics.NewCounter(`pricerproxy_bad_requests_total`)
	sendFailuresTotal   = metrics.NewCounter(`pricerproxy_send_failures_total`)
	resultsTotal        = metrics.NewCounter(`pricerproxy_results_total`)
	deliveryFailedTotal = metrics.NewCounter(`pricerproxy_delivery_failures_total`)
	pricerBytesTotal    = metrics.NewCounter(`pricerproxy_pricer_bytes_received_total`)

	activeSessions atomic.Int64
	_              = metrics.NewGauge(`pricerproxy_sessions_active`, func() float64 {
		return float64(activeSessions.Load())
	})
)

// metricsHandler writes all registered metrics including process metrics
func metricsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		metrics.WritePrometheus(w, true)
	})
}

// healthHandler reports whether the proxy accepts clients
func healthHandler(s *ProxyServer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.closing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, "shutting down\n")
			return
		}
		_, _ = io.WriteString(w, "ok\n")
	})
}
