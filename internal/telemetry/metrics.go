// Package telemetry exposes prometheus metrics and the publisher's health endpoints.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Publish outcomes.
const (
	PublishSaved  = "saved"
	PublishExists = "exists"
	PublishFailed = "error"
)

// Metrics holds the collectors of one process. A nil *Metrics is valid and records nothing,
// so library code never has to check whether metrics are enabled.
type Metrics struct {
	resolutions   *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
	unknownKeys   prometheus.Counter
	publishes     *prometheus.CounterVec
	currentDay    prometheus.Gauge
	httpReqs      *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rulesets_resolved_total",
				Help: "Rulesets resolved from a template, by kind",
			},
			[]string{"kind"},
		),
		parseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "override_parse_failures_total",
				Help: "Rejected override documents, by reason",
			},
			[]string{"reason"},
		),
		unknownKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "override_unknown_keys_total",
			Help: "Weight keys ignored because they name no known technique",
		}),
		publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weekly_publish_total",
				Help: "Weekly publication attempts, by result",
			},
			[]string{"result"},
		),
		currentDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weekly_current_day",
			Help: "Day number of the boundary of the currently published week",
		}),
		httpReqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDur: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
	reg.MustRegister(m.resolutions, m.parseFailures, m.unknownKeys, m.publishes, m.currentDay, m.httpReqs, m.httpDur)
	return m
}

// ObserveResolution counts one resolved ruleset of the given kind.
func (m *Metrics) ObserveResolution(kind string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(kind).Inc()
}

// ObserveParseFailure counts one rejected override document.
func (m *Metrics) ObserveParseFailure(reason string) {
	if m == nil {
		return
	}
	m.parseFailures.WithLabelValues(reason).Inc()
}

// ObserveUnknownKeys counts ignored weight keys.
func (m *Metrics) ObserveUnknownKeys(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unknownKeys.Add(float64(n))
}

// ObservePublish counts one publication attempt.
func (m *Metrics) ObservePublish(result string) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(result).Inc()
}

// SetCurrentWeek records the day number of the published week.
func (m *Metrics) SetCurrentWeek(day int64) {
	if m == nil {
		return
	}
	m.currentDay.Set(float64(day))
}

// Middleware records request counts and durations labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		if m == nil {
			return
		}
		// the pattern is only known after routing
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.httpReqs.WithLabelValues(route, r.Method, strconv.Itoa(ww.status)).Inc()
		m.httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
