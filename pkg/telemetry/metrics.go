// Package telemetry exposes service metrics in the Prometheus format.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

const namespace = "souchier"

// Metrics groups the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
	filterDuration prometheus.Histogram
	exports        *prometheus.CounterVec
	sessions       prometheus.Gauge
	catalogRecords prometheus.Gauge
	loadSeconds    prometheus.Gauge
	loadFailures   prometheus.Counter
}

// New registers all collectors, plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Data requests served, by route and status code.",
		}, []string{"route", "code"}),
		requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		filterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Time spent applying filter criteria to the catalog.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Filtered views exported, by format.",
		}, []string{"format"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Open websocket sessions.",
		}),
		catalogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Records in the loaded catalog.",
		}),
		loadSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_load_seconds",
			Help:      "Duration of the catalog load.",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_load_failures_total",
			Help:      "Catalog load attempts that failed.",
		}),
	}

	reg.MustRegister(
		m.requests, m.requestSeconds, m.filterDuration, m.exports, m.sessions,
		m.catalogRecords, m.loadSeconds, m.loadFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveLoad records the outcome of the catalog load.
func (m *Metrics) ObserveLoad(cat catalog.Catalog, err error, took time.Duration) {
	m.loadSeconds.Set(took.Seconds())
	if err != nil {
		m.loadFailures.Inc()
		m.catalogRecords.Set(0)
		return
	}
	m.catalogRecords.Set(float64(len(cat)))
}

// ObserveRequest counts one request and records its latency.
func (m *Metrics) ObserveRequest(route string, code int, took time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestSeconds.WithLabelValues(route).Observe(took.Seconds())
}

// ObserveFilter records one filter pass.
func (m *Metrics) ObserveFilter(took time.Duration) {
	m.filterDuration.Observe(took.Seconds())
}

// ObserveExport counts one export.
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

// SessionOpened and SessionClosed track live websocket sessions.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed decrements the live session gauge.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }
