// Package metrics exposes application directory outcomes as Prometheus
// metrics. Metrics implements the directory's Reporter so refresh and cache
// outcomes are counted, and records HTTP API traffic for the server.
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

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Directory metrics
	RefreshTotal    *prometheus.CounterVec
	CacheResets     prometheus.Counter
	CatalogApps     prometheus.Gauge
	LastRefreshTime prometheus.Gauge

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a metrics collector with its own registry, so several
// collectors can coexist in one process (and in tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appdir_refresh_total",
				Help: "Total number of catalog refresh attempts by result",
			},
			[]string{"result"},
		),
		CacheResets: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "appdir_cache_corrupted_total",
				Help: "Total number of corrupt cached catalogs reset to empty",
			},
		),
		CatalogApps: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "appdir_catalog_apps",
				Help: "Number of applications in the last refreshed catalog",
			},
		),
		LastRefreshTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "appdir_last_refresh_timestamp_seconds",
				Help: "Unix time of the last successful catalog refresh",
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appdir_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "appdir_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheCorrupted records a corrupt cached catalog.
func (m *Metrics) CacheCorrupted(_ string, _ error) {
	m.CacheResets.Inc()
}

// RefreshSucceeded records a successful refresh.
func (m *Metrics) RefreshSucceeded(_ string, apps int) {
	m.RefreshTotal.WithLabelValues("success").Inc()
	m.CatalogApps.Set(float64(apps))
	m.LastRefreshTime.SetToCurrentTime()
}

// RefreshFailed records a failed refresh.
func (m *Metrics) RefreshFailed(_ string, _ error) {
	m.RefreshTotal.WithLabelValues("failure").Inc()
}

// SetCatalogApps sets the catalog size gauge, for a catalog loaded from the
// cache rather than refreshed.
func (m *Metrics) SetCatalogApps(apps int) {
	m.CatalogApps.Set(float64(apps))
}

// RecordRequest records a served HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
