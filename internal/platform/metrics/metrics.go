// Package metrics exposes Prometheus instrumentation for HTTP traffic, prompt
// generation outcomes, and LLM gateway calls.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptgen"

// otherCategory replaces unknown categories in labels to bound cardinality.
const otherCategory = "other"

// Metrics holds every collector the service reports.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GenerationTotal    *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	LLMCallTotal    *prometheus.CounterVec
	LLMCallDuration *prometheus.HistogramVec

	catalog *domain.Catalog
}

var _ generation.Recorder = (*Metrics)(nil)

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route"},
		),
		GenerationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "total",
				Help:      "Total number of prompt generations by outcome",
			},
			[]string{"category", "outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "duration_seconds",
				Help:      "Prompt generation duration in seconds",
				Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),
		LLMCallTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "llm",
				Name:      "call_total",
				Help:      "Total number of LLM calls",
			},
			[]string{"provider", "status"},
		),
		LLMCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "llm",
				Name:      "call_duration_seconds",
				Help:      "LLM call duration in seconds",
				Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
		catalog: domain.DefaultCatalog(),
	}
}

// Handler serves the metrics registered with gatherer in the Prometheus
// exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveGeneration implements generation.Recorder.
func (m *Metrics) ObserveGeneration(category, outcome string, duration time.Duration) {
	m.GenerationTotal.WithLabelValues(m.categoryLabel(category), outcome).Inc()
	m.GenerationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) categoryLabel(category string) string {
	if category == "" {
		return "none"
	}
	if m.catalog.IsKnown(category) {
		return domain.NormalizeCategory(category)
	}
	return otherCategory
}

// Middleware records request counts and latencies labelled by the matched
// chi route pattern, so path parameters do not become label values.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// InstrumentGateway wraps gateway so every call is counted and timed under
// provider.
func (m *Metrics) InstrumentGateway(gateway generation.Gateway, provider string) generation.Gateway {
	return &instrumentedGateway{next: gateway, provider: provider, metrics: m}
}

type instrumentedGateway struct {
	next     generation.Gateway
	provider string
	metrics  *Metrics
}

func (g *instrumentedGateway) Invoke(ctx context.Context, systemDirective, instruction, model string) (string, error) {
	start := time.Now()
	raw, err := g.next.Invoke(ctx, systemDirective, instruction, model)

	status := "success"
	if err != nil {
		status = "error"
	}
	g.metrics.LLMCallTotal.WithLabelValues(g.provider, status).Inc()
	g.metrics.LLMCallDuration.WithLabelValues(g.provider).Observe(time.Since(start).Seconds())

	return raw, err
}
