package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, so services can run without instrumentation.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	LeadsCreated       prometheus.Counter
	ScoreLedgerEntries *prometheus.CounterVec
	MessagesAppended   prometheus.Counter
	ExportsCreated     *prometheus.CounterVec
	SideEffectFailures *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New registers all metrics on the default registerer
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all metrics on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		LeadsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created",
		}),
		ScoreLedgerEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "score_ledger_entries_total",
				Help: "Total number of score ledger entries written",
			},
			[]string{"reason"},
		),
		MessagesAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "messages_appended_total",
			Help: "Total number of messages appended to lead transcripts",
		}),
		ExportsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exports_created_total",
				Help: "Total number of lead exports rendered",
			},
			[]string{"format"}, // csv, xlsx
		),
		SideEffectFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "side_effect_failures_total",
				Help: "Secondary writes that failed without failing the primary operation",
			},
			[]string{"operation"},
		),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, e.g. /leads/:id

			err := next(c)

			code := c.Response().Status
			if err != nil && !c.Response().Committed {
				code = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					code = he.Code
				}
			}
			status := strconv.Itoa(code)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordLeadCreated increments leads created counter
func (m *Metrics) RecordLeadCreated() {
	if m == nil {
		return
	}
	m.LeadsCreated.Inc()
}

// RecordScoreEntry counts a ledger entry by reason
func (m *Metrics) RecordScoreEntry(reason string) {
	if m == nil {
		return
	}
	m.ScoreLedgerEntries.WithLabelValues(reason).Inc()
}

// RecordMessageAppended increments messages appended counter
func (m *Metrics) RecordMessageAppended() {
	if m == nil {
		return
	}
	m.MessagesAppended.Inc()
}

// RecordExportCreated counts an export by format
func (m *Metrics) RecordExportCreated(format string) {
	if m == nil {
		return
	}
	m.ExportsCreated.WithLabelValues(format).Inc()
}

// RecordSideEffectFailure counts a failed secondary write
func (m *Metrics) RecordSideEffectFailure(operation string) {
	if m == nil {
		return
	}
	m.SideEffectFailures.WithLabelValues(operation).Inc()
}

// RecordCacheHit increments cache hits counter
func (m *Metrics) RecordCacheHit(cacheType string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments cache misses counter
func (m *Metrics) RecordCacheMiss(cacheType string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(cacheType).Inc()
}
