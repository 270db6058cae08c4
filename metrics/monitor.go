package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for SearchesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Monitor records pipeline runs as Prometheus metrics.
// It implements pipeline.Monitor.
type Monitor struct {
	registry *prometheus.Registry
	started  sync.Map // request id -> time.Time

	SearchesTotal    *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	SearchesActive   prometheus.Gauge
	StageDuration    *prometheus.HistogramVec
	EvaluationsTotal *prometheus.CounterVec
	QualityScore     prometheus.Histogram
	RetriesTotal     *prometheus.CounterVec
	ResultCount      prometheus.Histogram
	SourceRecords    *prometheus.CounterVec
	RateLimitedTotal prometheus.Counter
}

var _ pipeline.Monitor = (*Monitor)(nil)

// NewMonitor creates a Monitor with its own registry.
func NewMonitor() *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Monitor{
		registry: reg,
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefing_searches_total",
				Help: "Total number of search requests by outcome",
			},
			[]string{"outcome"},
		),
		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "briefing_search_duration_seconds",
				Help:    "End-to-end duration of search requests in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		SearchesActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "briefing_searches_active",
				Help: "Number of search requests in flight",
			},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "briefing_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"stage", "status"},
		),
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefing_evaluations_total",
				Help: "Total number of result evaluations by verdict",
			},
			[]string{"passed"},
		),
		QualityScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "briefing_quality_score",
				Help:    "Quality score assigned by the evaluator",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		RetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefing_retries_total",
				Help: "Total number of self-reflection retries by adoption",
			},
			[]string{"adopted"},
		),
		ResultCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "briefing_result_count",
				Help:    "Number of updates returned per search",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		SourceRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefing_source_records_total",
				Help: "Records contributed by each source before deduplication",
			},
			[]string{"source"},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "briefing_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
	}
}

// Registry returns the registry holding the monitor's collectors.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RateLimited counts one rejected request.
func (m *Monitor) RateLimited() {
	m.RateLimitedTotal.Inc()
}

func (m *Monitor) Start(requestID, _ string) {
	m.started.Store(requestID, time.Now())
	m.SearchesActive.Inc()
}

func (m *Monitor) StageCompleted(_ string, stage core.StageRecord) {
	seconds := float64(stage.DurationMs) / 1000
	m.StageDuration.WithLabelValues(stage.Stage, string(stage.Status)).Observe(seconds)
}

func (m *Monitor) Evaluated(_ string, outcome *core.EvaluationOutcome) {
	m.EvaluationsTotal.WithLabelValues(strconv.FormatBool(outcome.Passed)).Inc()
	m.QualityScore.Observe(outcome.QualityScore)
}

func (m *Monitor) RetryFinished(_ string, adopted bool) {
	m.RetriesTotal.WithLabelValues(strconv.FormatBool(adopted)).Inc()
}

func (m *Monitor) Finish(requestID string, result *pipeline.Result) {
	m.end(requestID, OutcomeSuccess)
	m.ResultCount.Observe(float64(len(result.Updates)))
	m.SourceRecords.WithLabelValues("local").Add(float64(result.SearchSources.Local))
	m.SourceRecords.WithLabelValues("learn").Add(float64(result.SearchSources.Learn))
	m.SourceRecords.WithLabelValues("tenant").Add(float64(result.SearchSources.Tenant))
}

func (m *Monitor) Fail(requestID string, _ error) {
	m.end(requestID, OutcomeFailed)
}

func (m *Monitor) end(requestID, outcome string) {
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	if v, ok := m.started.LoadAndDelete(requestID); ok {
		m.SearchesActive.Dec()
		m.SearchDuration.Observe(time.Since(v.(time.Time)).Seconds())
	}
}
