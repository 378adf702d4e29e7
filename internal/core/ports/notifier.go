package ports

import "github.com/hive-corporation/autosoc/internal/core/domain"

// Notifier delivers analyst-facing notifications. Delivery guarantees are
// the implementation's problem; the core only hands over the content.
type Notifier interface {
	// NotifyAssessment sends a single-event threat assessment to analysts.
	NotifyAssessment(assessment domain.ThreatAssessment, event domain.LogEvent) error

	// NotifyTriage sends a coordinated-attack judgment for an alert cluster.
	NotifyTriage(triage domain.TriageResult, alertCount int) error

	// DeliverWeeklyReport sends the plain-text weekly report.
	DeliverWeeklyReport(report string) error
}

// EventPublisher fans pipeline outputs out to downstream consumers.
type EventPublisher interface {
	PublishAssessment(assessment domain.ThreatAssessment, event domain.LogEvent) error
	PublishResponse(result domain.ResponseResult) error
}
