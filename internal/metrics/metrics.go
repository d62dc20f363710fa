// Package metrics provides the Prometheus metrics registry for the form-guide pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "form_guide"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	DocumentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_total",
		Help:      "Documents processed, by outcome (parsed, cached, failed)",
	}, []string{"status"})
	LinesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lines_total",
		Help:      "Page text lines seen, by classification",
	}, []string{"kind"})
	RowsParsedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_parsed_total",
		Help:      "Runner rows emitted after deduplication",
	})
	OrphanLinesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphan_lines_total",
		Help:      "Runner lines dropped because no race header preceded them",
	})
	DuplicateRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_rows_total",
		Help:      "Runner rows discarded as duplicates",
	})
	RacesScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "races_scored_total",
		Help:      "Race groups scored, by strategy",
	}, []string{"strategy"})
	ValueBetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_total",
		Help:      "Value bets emitted",
	})
	QuotesRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_rejected_total",
		Help:      "Odds rows rejected during loading",
	})
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Pipeline runs, by outcome",
	}, []string{"status"})
)

// Gauge metrics
var (
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed run",
	})
	LastRunRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_rows",
		Help:      "Runner rows produced by the last run",
	})
	LastRunStake = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_stake",
		Help:      "Total stake recommended by the last run",
	})
)

// Histogram metrics
var (
	DocumentParseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_parse_duration_seconds",
		Help:      "Time to extract and parse one document",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of pipeline runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(DocumentsTotal)
		registry.MustRegister(LinesTotal)
		registry.MustRegister(RowsParsedTotal)
		registry.MustRegister(OrphanLinesTotal)
		registry.MustRegister(DuplicateRowsTotal)
		registry.MustRegister(RacesScoredTotal)
		registry.MustRegister(ValueBetsTotal)
		registry.MustRegister(QuotesRejectedTotal)
		registry.MustRegister(RunsTotal)

		registry.MustRegister(LastRunTimestamp)
		registry.MustRegister(LastRunRows)
		registry.MustRegister(LastRunStake)

		registry.MustRegister(DocumentParseDuration)
		registry.MustRegister(RunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// DocumentStats is what the pipeline reports about one parsed document.
type DocumentStats struct {
	Noise       int
	Headers     int
	Runners     int
	Annotations int
	Unmatched   int
	Rows        int
	Orphans     int
	Duplicates  int
}

// RecordDocument records a parsed document.
func RecordDocument(s DocumentStats, durationSeconds float64) {
	DocumentsTotal.WithLabelValues("parsed").Inc()
	LinesTotal.WithLabelValues("noise").Add(float64(s.Noise))
	LinesTotal.WithLabelValues("header").Add(float64(s.Headers))
	LinesTotal.WithLabelValues("runner").Add(float64(s.Runners))
	LinesTotal.WithLabelValues("annotation").Add(float64(s.Annotations))
	LinesTotal.WithLabelValues("unmatched").Add(float64(s.Unmatched))
	RowsParsedTotal.Add(float64(s.Rows))
	OrphanLinesTotal.Add(float64(s.Orphans))
	DuplicateRowsTotal.Add(float64(s.Duplicates))
	DocumentParseDuration.Observe(durationSeconds)
}

// RecordDocumentCached records a document served from the parse cache.
func RecordDocumentCached() {
	DocumentsTotal.WithLabelValues("cached").Inc()
}

// RecordDocumentFailed records a document that could not be extracted.
func RecordDocumentFailed() {
	DocumentsTotal.WithLabelValues("failed").Inc()
}

// RecordRacesScored records a scoring pass.
func RecordRacesScored(strategy string, races int) {
	RacesScoredTotal.WithLabelValues(strategy).Add(float64(races))
}

// RecordValueBets records emitted value bets.
func RecordValueBets(count int) {
	ValueBetsTotal.Add(float64(count))
}

// RecordQuotesRejected records rejected odds rows.
func RecordQuotesRejected(count int) {
	QuotesRejectedTotal.Add(float64(count))
}

// RecordRun records a finished run.
func RecordRun(status string, rows int, stake float64, finishedAtUnix int64, durationSeconds float64) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(durationSeconds)
	if status == "ok" {
		LastRunTimestamp.Set(float64(finishedAtUnix))
		LastRunRows.Set(float64(rows))
		LastRunStake.Set(stake)
	}
}
