// Package metrics exposes Prometheus counters for placements, drag gestures
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/placement"
)

const namespace = "formbuilder"

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry     *prometheus.Registry
	placements   *prometheus.CounterVec
	gestures     *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "placements_total",
				Help:      "Finished placement dialogs by field kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "drag_gestures_total",
				Help:      "Finished drag gestures by outcome.",
			},
			[]string{"outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	m.registry.MustRegister(
		m.placements,
		m.gestures,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordPlacement matches placement.ObserverFunc.
func (m *Metrics) RecordPlacement(kind catalog.FieldKind, outcome placement.Outcome) {
	m.placements.WithLabelValues(kind.String(), string(outcome)).Inc()
}

// RecordGesture matches the builder gesture observer.
func (m *Metrics) RecordGesture(outcome builder.GestureOutcome) {
	m.gestures.WithLabelValues(string(outcome)).Inc()
}

// RecordHTTPRequest counts one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	statusLabel := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, route, statusLabel).Inc()
	m.httpDuration.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

// BuilderOptions wires the counters into a builder instance.
func (m *Metrics) BuilderOptions() []builder.Option {
	return []builder.Option{
		builder.WithGestureObserver(m.RecordGesture),
		builder.WithPlacementOptions(placement.WithObserver(m.RecordPlacement)),
	}
}
