package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	outcomes      *prometheus.CounterVec
	pages         prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranobot_search_outcomes_total",
				Help: "Total number of searches by outcome kind",
			},
			[]string{"kind"},
		),
		pages: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ranobot_search_pages",
				Help:    "Number of catalog pages fetched by one search",
				Buckets: []float64{1, 2, 5, 10, 20, 30, 40, 50, 60},
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranobot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "code"},
		),
		httpDurations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranobot_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route"},
		),
	}
}

func (m *Metrics) ObserveOutcome(kind string) {
	m.outcomes.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObservePages(n int) {
	m.pages.Observe(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument counts requests to route and records their latency.
func (m *Metrics) Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		m.httpRequests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		m.httpDurations.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
