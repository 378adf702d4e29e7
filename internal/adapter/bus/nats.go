package bus

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/hive-corporation/autosoc/internal/core/domain"
)

const (
	subjectAssessments = "autosoc.assessments"
	subjectResponses   = "autosoc.responses"
)

// NatsPublisher fans assessments and response results out to downstream
// consumers (SIEM forwarders, dashboards). Publishing is best-effort: the
// pipeline's own result does not depend on it.
type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(conn *nats.Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

func (p *NatsPublisher) PublishAssessment(assessment domain.ThreatAssessment, event domain.LogEvent) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return fmt.Errorf("NATS connection not available")
	}

	payload, err := json.Marshal(map[string]any{
		"assessment": assessment,
		"event":      event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	headers := nats.Header{}
	headers.Set("x-severity", string(assessment.Severity))
	headers.Set("x-provider", assessment.Provider)

	msg := &nats.Msg{
		Subject: subjectAssessments,
		Data:    payload,
		Header:  headers,
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish assessment: %w", err)
	}

	log.Printf("📤 Published assessment (severity: %s) to %s", assessment.Severity, subjectAssessments)
	return nil
}

func (p *NatsPublisher) PublishResponse(result domain.ResponseResult) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return fmt.Errorf("NATS connection not available")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal response result: %w", err)
	}

	headers := nats.Header{}
	headers.Set("x-severity", string(result.Severity))

	msg := &nats.Msg{
		Subject: subjectResponses,
		Data:    payload,
		Header:  headers,
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish response result: %w", err)
	}

	log.Printf("📤 Published response result (severity: %s) to %s", result.Severity, subjectResponses)
	return nil
}
