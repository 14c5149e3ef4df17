// Package metrics exposes dashboard activity to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives dashboard events.
type Recorder interface {
	LinkAdded()
	LinkEdited(countChanged bool)
	LinkDeleted()
	Searched(matches int)
	SetTotals(links, ads int)
	ObserveRequest(route string, status int, duration time.Duration)
}

type Prometheus struct {
	registry        *prometheus.Registry
	operations      *prometheus.CounterVec
	searchMatches   prometheus.Histogram
	linksTotal      prometheus.Gauge
	adsTotal        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheus registers the collectors on a private registry so several
// instances (one per test, for example) never collide.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()

	m := &Prometheus{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adtrack_operations_total",
			Help: "Dashboard operations by kind",
		}, []string{"operation"}),
		searchMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "adtrack_search_matches",
			Help:    "Number of links returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		linksTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adtrack_links",
			Help: "Monitored links currently tracked",
		}),
		adsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adtrack_active_ads",
			Help: "Sum of active ad counts over all monitored links",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adtrack_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adtrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.operations,
		m.searchMatches,
		m.linksTotal,
		m.adsTotal,
		m.requestsTotal,
		m.requestDuration,
	)

	return m
}

func (m *Prometheus) LinkAdded()   { m.operations.WithLabelValues("add").Inc() }
func (m *Prometheus) LinkDeleted() { m.operations.WithLabelValues("delete").Inc() }

func (m *Prometheus) LinkEdited(countChanged bool) {
	m.operations.WithLabelValues("edit").Inc()
	if countChanged {
		m.operations.WithLabelValues("ads_count_change").Inc()
	}
}

func (m *Prometheus) Searched(matches int) {
	m.operations.WithLabelValues("search").Inc()
	m.searchMatches.Observe(float64(matches))
}

func (m *Prometheus) SetTotals(links, ads int) {
	m.linksTotal.Set(float64(links))
	m.adsTotal.Set(float64(ads))
}

func (m *Prometheus) ObserveRequest(route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, statusBucket(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records one observation per request, labelled by route
// pattern rather than raw path to keep label cardinality bounded.
func Middleware(r Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			// Render the error here so the recorded status is the one sent.
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			r.ObserveRequest(route, c.Response().Status, time.Since(start))
			return nil
		}
	}
}

func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return strconv.Itoa(code/100) + "xx"
	}
}

type noop struct{}

// Noop returns a Recorder that discards everything.
func Noop() Recorder { return noop{} }

func (noop) LinkAdded()                                {}
func (noop) LinkEdited(bool)                           {}
func (noop) LinkDeleted()                              {}
func (noop) Searched(int)                              {}
func (noop) SetTotals(int, int)                        {}
func (noop) ObserveRequest(string, int, time.Duration) {}
