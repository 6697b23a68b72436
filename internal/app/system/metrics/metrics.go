// Package metrics holds the portal's Prometheus collectors: inbound HTTP
// traffic and the upstream EZRA API calls made on the user's behalf.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ezra_portal_http_in_flight_requests",
		Help: "In-flight portal HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezra_portal_http_requests_total",
			Help: "Portal HTTP requests by route pattern and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ezra_portal_http_request_duration_seconds",
			Help:    "Portal HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	upstreamTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezra_upstream_requests_total",
			Help: "EZRA API calls by resource and outcome.",
		},
		[]string{"resource", "outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ezra_upstream_request_duration_seconds",
			Help:    "EZRA API call latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	cacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezra_query_cache_total",
			Help: "Query cache lookups by result (hit, miss, discarded).",
		},
		[]string{"result"},
	)

	registerOnce sync.Once
)

// Upstream call outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeUnauthorized = "unauthorized"
	OutcomeFailed       = "failed"
	OutcomeNetwork      = "network"
)

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			upstreamTotal, upstreamDuration, cacheTotal,
		)
	})
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveUpstream records one EZRA API call.
func ObserveUpstream(resource, outcome string, d time.Duration) {
	upstreamTotal.WithLabelValues(resource, outcome).Inc()
	upstreamDuration.WithLabelValues(resource).Observe(d.Seconds())
}

// ObserveCache records one query cache lookup.
func ObserveCache(result string) {
	cacheTotal.WithLabelValues(result).Inc()
}

// Instrument measures inbound requests. The chi route pattern is used as the
// label so path parameters (user ids, lease ids) don't explode cardinality.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}

		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.code)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
