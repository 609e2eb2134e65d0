package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formkit"
)

const namespace = "formkit"

// Collector holds the Prometheus metrics of the form endpoints.
type Collector struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	ValidationFailures *prometheus.CounterVec
	ValidationIssues   *prometheus.CounterVec
}

// New creates a collector registered with reg.
// Pass prometheus.NewRegistry() in tests to avoid global state.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds, uploads included",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of requests rejected with validation errors",
			},
			[]string{"route"},
		),
		ValidationIssues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_issues_total",
				Help:      "Total number of field validation errors by top-level field",
			},
			[]string{"field"},
		),
	}
}

// Middleware records request count, duration and in-flight requests.
// Routes are labelled with the chi route pattern to bound cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		c.RequestsInFlight.Inc()
		defer c.RequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := Route(r)
		c.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveIssues counts a validation failure and its field errors.
// Its signature matches handler.IssueObserver:
//
//	handler.NewErrorHandler[handler.Context](log, handler.WithIssueObserver(collector.ObserveIssues))
func (c *Collector) ObserveIssues(r *http.Request, issues []formkit.ValidationError) {
	c.ValidationFailures.WithLabelValues(Route(r)).Inc()
	for _, issue := range issues {
		field := "_root"
		if len(issue.Field) > 0 {
			field = issue.Field[0].String()
		}
		c.ValidationIssues.WithLabelValues(field).Inc()
	}
}

// Route returns the matched chi route pattern, or "unmatched".
func Route(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
