// Package metrics provides Prometheus instrumentation for the store.
//
// Wire it up once in internal/server:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kopistore",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kopistore",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kopistore",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// CheckoutDuration tracks the latency of the checkout transaction.
	CheckoutDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kopistore",
		Subsystem: "order",
		Name:      "checkout_duration_seconds",
		Help:      "Duration of the checkout unit of work in seconds.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	// CheckoutTotal counts checkout attempts by outcome.
	CheckoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kopistore",
			Subsystem: "order",
			Name:      "checkouts_total",
			Help:      "Total checkout attempts.",
		},
		[]string{"outcome"}, // "success" | "insufficient_stock" | "error"
	)

	// StockReductions counts committed stock decrements.
	StockReductions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kopistore",
		Subsystem: "inventory",
		Name:      "stock_reductions_total",
		Help:      "Total committed stock decrements.",
	})

	// InsufficientStock counts rejected stock decrements.
	InsufficientStock = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kopistore",
		Subsystem: "inventory",
		Name:      "insufficient_stock_total",
		Help:      "Total stock decrements rejected for insufficient quantity.",
	})
)

// DefaultRegistry is the Prometheus registry used by the store.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		CheckoutDuration,
		CheckoutTotal,
		StockReductions,
		InsufficientStock,
	)
}

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, total and in-flight metrics per request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page. Mount on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ObserveCheckout records one checkout attempt:
//
//	defer metrics.ObserveCheckout(outcome, time.Now())
func ObserveCheckout(outcome string, start time.Time) {
	CheckoutTotal.WithLabelValues(outcome).Inc()
	CheckoutDuration.Observe(time.Since(start).Seconds())
}
