package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paycalc/internal/domain/payroll"
)

// Collector owns its registry so several instances can coexist in tests.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	calculations    *prometheus.CounterVec
	netSalary       prometheus.Histogram
	presetReloads   *prometheus.CounterVec
	liveSessions    prometheus.Gauge
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paycalc_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paycalc_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paycalc_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paycalc_calculations_total",
			Help: "Payroll calculations by city preset",
		}, []string{"city"}),
		netSalary: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "paycalc_net_salary",
			Help:    "Distribution of computed net salaries",
			Buckets: []float64{3000, 5000, 8000, 12000, 20000, 35000, 60000, 100000},
		}),
		presetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paycalc_preset_reloads_total",
			Help: "Presets file reload attempts by outcome",
		}, []string{"outcome"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paycalc_live_sessions",
			Help: "Open live-recompute websocket sessions",
		}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.requestDuration,
		c.rateLimited,
		c.calculations,
		c.netSalary,
		c.presetReloads,
		c.liveSessions,
	)
	return c
}

func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) ObserveCalculation(cityID string, result payroll.PayrollResult) {
	c.calculations.WithLabelValues(cityID).Inc()
	c.netSalary.Observe(result.NetSalary)
}

func (c *Collector) PresetReload(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.presetReloads.WithLabelValues(outcome).Inc()
}

func (c *Collector) LiveSessionOpened() {
	c.liveSessions.Inc()
}

func (c *Collector) LiveSessionClosed() {
	c.liveSessions.Dec()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
