package metrics

import (
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chatlens/chatlens/internal/model"
)

const namespace = "chatlens"

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	analysisDuration prometheus.Histogram
	analysisTimeouts prometheus.Counter
	parsedLines      *prometheus.CounterVec
	reportsCreated   *prometheus.CounterVec
	reportsServed    *prometheus.CounterVec
	reportsExpired   prometheus.Counter
	reportsCleaned   prometheus.Counter
	sharesIssued     *prometheus.CounterVec
	sharesVerified   *prometheus.CounterVec
}

// NewPrometheus creates a recorder and registers its collectors with reg.
func NewPrometheus(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent parsing and computing metrics for an upload.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		analysisTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_timeouts_total",
			Help:      "Analyses abandoned after the configured timeout.",
		}),
		parsedLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parsed_lines_total",
			Help:      "Export lines seen by the parser, by outcome.",
		}, []string{"outcome"}),
		reportsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_created_total",
			Help:      "Reports stored.",
		}, []string{"anonymized"}),
		reportsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_served_total",
			Help:      "Reports read, by source.",
		}, []string{"source"}),
		reportsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_expired_total",
			Help:      "Reports found expired on read and removed.",
		}),
		reportsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_cleaned_total",
			Help:      "Expired reports removed by the cleanup worker.",
		}),
		sharesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_issued_total",
			Help:      "Share tokens issued, by variant.",
		}, []string{"variant"}),
		sharesVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_verified_total",
			Help:      "Share token checks, by status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{
		r.analysisDuration, r.analysisTimeouts, r.parsedLines,
		r.reportsCreated, r.reportsServed, r.reportsExpired, r.reportsCleaned,
		r.sharesIssued, r.sharesVerified,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ObserveAnalysisDuration records how long an analysis took.
func (r *PrometheusRecorder) ObserveAnalysisDuration(duration time.Duration) {
	r.analysisDuration.Observe(duration.Seconds())
}

// IncAnalysisTimeout increments the analysis timeout counter.
func (r *PrometheusRecorder) IncAnalysisTimeout() {
	r.analysisTimeouts.Inc()
}

// ObserveParseStats adds parser diagnostics to the line counters.
func (r *PrometheusRecorder) ObserveParseStats(stats model.ParseStats) {
	r.parsedLines.WithLabelValues("message").Add(float64(stats.Messages))
	r.parsedLines.WithLabelValues("system").Add(float64(stats.SystemFiltered))
	r.parsedLines.WithLabelValues("unparsed").Add(float64(stats.Unparsed))
}

// IncReportCreated increments the report created counter.
func (r *PrometheusRecorder) IncReportCreated(anonymized bool) {
	r.reportsCreated.WithLabelValues(strconv.FormatBool(anonymized)).Inc()
}

// IncReportServed counts a report read by where it came from.
func (r *PrometheusRecorder) IncReportServed(source string) {
	r.reportsServed.WithLabelValues(source).Inc()
}

// IncReportExpired increments the lazily expired counter.
func (r *PrometheusRecorder) IncReportExpired() {
	r.reportsExpired.Inc()
}

// AddReportsCleaned adds n to the cleanup counter.
func (r *PrometheusRecorder) AddReportsCleaned(n int64) {
	if n > 0 {
		r.reportsCleaned.Add(float64(n))
	}
}

// IncShareIssued increments the share issued counter.
func (r *PrometheusRecorder) IncShareIssued(variant string) {
	r.sharesIssued.WithLabelValues(variant).Inc()
}

// IncShareVerified counts a share token check by outcome.
func (r *PrometheusRecorder) IncShareVerified(status string) {
	r.sharesVerified.WithLabelValues(status).Inc()
}

// PoolStatsCollector exports connection pool statistics, read on each scrape.
type PoolStatsCollector struct {
	pool *pgxpool.Pool

	totalConns    *prometheus.Desc
	idleConns     *prometheus.Desc
	acquiredConns *prometheus.Desc
	maxConns      *prometheus.Desc
}

// NewPoolStatsCollector creates a collector for pool.
func NewPoolStatsCollector(pool *pgxpool.Pool) *PoolStatsCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "db_pool", name), help, nil, nil)
	}
	return &PoolStatsCollector{
		pool:          pool,
		totalConns:    desc("total_conns", "Total number of connections currently open in the pool."),
		idleConns:     desc("idle_conns", "Number of idle connections in the pool."),
		acquiredConns: desc("acquired_conns", "Number of connections currently acquired from the pool."),
		maxConns:      desc("max_conns", "Maximum number of connections allowed in the pool."),
	}
}

// Describe sends all metric descriptors to the channel.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.acquiredConns
	ch <- c.maxConns
}

// Collect gathers current pool statistics.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool == nil {
		return
	}

	stats := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(stats.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stats.MaxConns()))
}
