// Package metrics provides Prometheus instrumentation for generation
// requests, the generation cache and the HTTP API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/openrouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flashgen"

// Metrics owns every collector of the service. Each instance registers on its
// own registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// LLMAttemptLatency tracks the latency of single provider calls.
	LLMAttemptLatency *prometheus.HistogramVec

	// LLMRequestsTotal counts finished generation requests by result code.
	LLMRequestsTotal *prometheus.CounterVec

	CacheLookupsTotal *prometheus.CounterVec

	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
	HTTPInFlight       prometheus.Gauge
}

var _ openrouter.Observer = (*Metrics)(nil)

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LLMAttemptLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_attempt_duration_seconds",
				Help:      "Latency of single LLM provider calls in seconds.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"model", "outcome"},
		),
		LLMRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Generation requests by model and result code.",
			},
			[]string{"model", "code"},
		),
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_cache_lookups_total",
				Help:      "Generation cache lookups by result: hit, miss or error.",
			},
			[]string{"result"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "HTTP requests currently being served.",
			},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAttempt implements openrouter.Observer.
func (m *Metrics) ObserveAttempt(model, outcome string, d time.Duration) {
	m.LLMAttemptLatency.WithLabelValues(model, outcome).Observe(d.Seconds())
}

// ObserveResult implements openrouter.Observer.
func (m *Metrics) ObserveResult(model, code string) {
	m.LLMRequestsTotal.WithLabelValues(model, code).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, latency and in-flight requests. Routes are
// labelled with their chi pattern so ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPInFlight.Inc()
		defer m.HTTPInFlight.Dec()

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
		m.HTTPRequestLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// InstrumentCache counts lookups on c by result.
func (m *Metrics) InstrumentCache(c generation.Cache) generation.Cache {
	return &instrumentedCache{next: c, lookups: m.CacheLookupsTotal}
}

type instrumentedCache struct {
	next    generation.Cache
	lookups *prometheus.CounterVec
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]openrouter.Flashcard, bool, error) {
	cards, ok, err := c.next.Get(ctx, key)
	switch {
	case err != nil:
		c.lookups.WithLabelValues("error").Inc()
	case ok:
		c.lookups.WithLabelValues("hit").Inc()
	default:
		c.lookups.WithLabelValues("miss").Inc()
	}
	return cards, ok, err
}

func (c *instrumentedCache) Set(ctx context.Context, key string, cards []openrouter.Flashcard) error {
	return c.next.Set(ctx, key, cards)
}
