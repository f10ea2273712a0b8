// Package metrics provides Prometheus metrics for shelf.
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

// Metrics holds all Prometheus metrics for shelf. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SelectionsTotal   prometheus.Counter
	SelectionResults  prometheus.Histogram
	SaveTogglesTotal  *prometheus.CounterVec
	CopiesTotal       prometheus.Counter
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the metrics on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.SelectionsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "shelf_selections_total",
		Help: "Total number of selection computations",
	})

	m.SelectionResults = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "shelf_selection_results",
		Help:    "Number of prompts returned per selection",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	m.SaveTogglesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_save_toggles_total",
			Help: "Total number of saved-set toggles",
		},
		[]string{"action"},
	)

	m.CopiesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "shelf_copies_total",
		Help: "Total number of prompt copies",
	})

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelf_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSelection records one selection and its result size.
func (m *Metrics) RecordSelection(results int) {
	if m == nil {
		return
	}
	m.SelectionsTotal.Inc()
	m.SelectionResults.Observe(float64(results))
}

// RecordToggle records a saved-set toggle. nowSaved selects the action label.
func (m *Metrics) RecordToggle(nowSaved bool) {
	if m == nil {
		return
	}
	action := "unsave"
	if nowSaved {
		action = "save"
	}
	m.SaveTogglesTotal.WithLabelValues(action).Inc()
}

// RecordCopy records one copy of prompt content.
func (m *Metrics) RecordCopy() {
	if m == nil {
		return
	}
	m.CopiesTotal.Inc()
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}
