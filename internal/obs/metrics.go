package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Domain counters. Incremented at the HTTP edge so the engines stay
	// free of metrics plumbing.
	TransactionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_created_total",
		Help: "Transactions recorded.",
	})
	TransactionsReversed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_reversed_total",
		Help: "Transactions reversed.",
	})
	PaymentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_payments_created_total",
		Help: "Payments recorded.",
	})
	PaymentsReversed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_payments_reversed_total",
		Help: "Payments reversed.",
	})
)

// Init registers the metrics with the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight,
		httpRequestsTotal,
		httpRequestDuration,
		TransactionsCreated,
		TransactionsReversed,
		PaymentsCreated,
		PaymentsReversed,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument measures RPS, latency and in-flight count per route.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		// WrapResponseWriter keeps Hijacker/Flusher passthrough so wrapped
		// routes can still upgrade to websocket.
		sw := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(sw, r)

		// Prefer the chi route pattern so path params do not blow up
		// label cardinality.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		duration := time.Since(start).Seconds()
		code := sw.Status()
		if code == 0 {
			code = http.StatusOK
		}
		status := strconv.Itoa(code)

		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpInFlight.Dec()
	})
}
