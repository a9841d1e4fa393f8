package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics holds the Prometheus collectors for the admin API
type Metrics struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	gatherer        prometheus.Gatherer
}

// NewMetrics registers the API collectors with reg and serves them from gatherer.
// Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relief",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "relief",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relief",
			Subsystem: "engine",
			Name:      "assignment_transitions_total",
			Help:      "Assignment transitions by target state and outcome",
		}, []string{"target", "outcome"}),
		gatherer: gatherer,
	}

	collectors := []prometheus.Collector{m.requestTotal, m.requestDuration, m.transitions}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				continue
			}
			switch existing := already.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				if collector == m.requestTotal {
					m.requestTotal = existing
				} else {
					m.transitions = existing
				}
			case *prometheus.HistogramVec:
				m.requestDuration = existing
			}
		}
	}

	return m
}

// DefaultMetrics uses the process-wide Prometheus registry
func DefaultMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// Handler exposes the gathered metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestDuration.With(labels).Observe(duration.Seconds())
}

func (m *Metrics) observeTransition(target model.AssignmentStatus, changed bool) {
	outcome := "noop"
	if changed {
		outcome = "changed"
	}
	m.transitions.With(prometheus.Labels{"target": string(target), "outcome": outcome}).Inc()
}
