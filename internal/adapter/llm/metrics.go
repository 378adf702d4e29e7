package llm

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricsOnce ensures metrics are registered only once
	metricsOnce sync.Once

	// classifierRequestsTotal tracks classification calls by status and provider
	classifierRequestsTotal *prometheus.CounterVec

	// classifierDuration tracks latency of classification calls
	classifierDuration prometheus.Histogram

	// classifierErrorsTotal tracks classification API errors by type
	classifierErrorsTotal *prometheus.CounterVec

	// analysesTotal tracks completed assessments by the provider that produced
	// them; provider="fallback" counts degraded analyses
	analysesTotal *prometheus.CounterVec

	// analysisSeverity tracks the distribution of assessed severity levels
	analysisSeverity *prometheus.CounterVec

	// responseActionsTotal tracks executed playbook actions by action and status
	responseActionsTotal *prometheus.CounterVec
)

// InitMetrics registers all Prometheus metrics for the analysis pipeline.
// This should be called once at application startup.
func InitMetrics() {
	metricsOnce.Do(func() {
		classifierRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosoc_classifier_requests_total",
				Help: "Total number of classification calls by status and provider",
			},
			[]string{"status", "provider"},
		)

		classifierDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "autosoc_classifier_duration_seconds",
				Help:    "Duration of classification calls in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
		)

		classifierErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosoc_classifier_errors_total",
				Help: "Total number of classification API errors by error type",
			},
			[]string{"error_type"},
		)

		analysesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosoc_analyses_total",
				Help: "Total number of completed threat assessments by provider",
			},
			[]string{"provider"},
		)

		analysisSeverity = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosoc_analysis_severity",
				Help: "Distribution of assessed severity levels",
			},
			[]string{"severity"},
		)

		responseActionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosoc_response_actions_total",
				Help: "Total number of executed response actions by action and status",
			},
			[]string{"action", "status"},
		)
	})
}

// RecordClassifierRequest records a classification call.
// status: "success", "error"
func RecordClassifierRequest(status, provider string) {
	if classifierRequestsTotal != nil {
		classifierRequestsTotal.WithLabelValues(status, provider).Inc()
	}
}

// RecordClassifierDuration records the duration of a classification call
func RecordClassifierDuration(duration time.Duration) {
	if classifierDuration != nil {
		classifierDuration.Observe(duration.Seconds())
	}
}

// RecordError records a classification API error by type
// errorType: "timeout", "auth", "rate_limit", "server_error", "connection", "parse", "circuit_open"
func RecordError(errorType string) {
	if classifierErrorsTotal != nil {
		classifierErrorsTotal.WithLabelValues(errorType).Inc()
	}
}

// RecordAnalysis records a completed assessment by provider and severity.
// Fallback assessments arrive here with provider="fallback".
func RecordAnalysis(provider, severity string) {
	if analysesTotal != nil {
		analysesTotal.WithLabelValues(provider).Inc()
	}
	if analysisSeverity != nil {
		analysisSeverity.WithLabelValues(severity).Inc()
	}
}

// RecordAction records one executed playbook action
func RecordAction(action, status string) {
	if responseActionsTotal != nil {
		responseActionsTotal.WithLabelValues(action, status).Inc()
	}
}

// ClassifierTimer is a helper for timing classification calls
type ClassifierTimer struct {
	start time.Time
}

// StartTimer creates a new timer for measuring call duration
func StartTimer() *ClassifierTimer {
	return &ClassifierTimer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer started
func (t *ClassifierTimer) ObserveDuration() {
	if t != nil {
		RecordClassifierDuration(time.Since(t.start))
	}
}
