package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hive-corporation/autosoc/internal/adapter/llm"
	"github.com/hive-corporation/autosoc/internal/core/domain"
	"github.com/hive-corporation/autosoc/internal/core/ports"
)

// Executor is the default ActionExecutor. Each handler is an integration
// point against a client's external systems (EDR, firewall, ticketing,
// notification); a handler never returns an error — failures are encoded
// in the ActionResult's Status so the playbook keeps running.
type Executor struct {
	httpClient *http.Client
	notifier   ports.Notifier
	repo       ports.IncidentRepository
}

// NewExecutor creates an executor. notifier and repo may be nil; the
// matching handlers then record the action without the side effect.
func NewExecutor(notifier ports.Notifier, repo ports.IncidentRepository) *Executor {
	return &Executor{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		notifier:   notifier,
		repo:       repo,
	}
}

// Execute dispatches an action name to its handler. An unrecognized name
// routes to the log_event handler: degrading to the audit trail beats
// silently skipping or failing the whole response.
func (e *Executor) Execute(ctx context.Context, action domain.Action, assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ActionResult {
	var result domain.ActionResult

	switch action {
	case domain.ActionIsolateHost:
		result = e.isolateHost(ctx, assessment, config)
	case domain.ActionBlockIP:
		result = e.blockIP(ctx, assessment, config)
	case domain.ActionAlertAnalyst:
		result = e.alertAnalyst(assessment, config)
	case domain.ActionCreateIncident:
		result = e.createIncident(ctx, assessment, config, false)
	case domain.ActionCreateTicket:
		result = e.createIncident(ctx, assessment, config, true)
	case domain.ActionLogEvent:
		result = e.logEvent(assessment, config)
	default:
		result = e.logEvent(assessment, config)
	}

	llm.RecordAction(string(result.Action), result.Status)
	return result
}

// isolateHost calls the client's EDR API to quarantine the affected host.
func (e *Executor) isolateHost(ctx context.Context, assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ActionResult {
	if config.EDRBaseURL == "" {
		return domain.ActionResult{
			Action:  domain.ActionIsolateHost,
			Status:  "executed",
			Details: map[string]any{"note": "EDR integration not configured"},
		}
	}

	payload := map[string]any{
		"client_id": config.ClientID,
		"reason":    assessment.ThreatSummary,
	}
	if err := e.post(ctx, config.EDRBaseURL+"/v1/hosts/isolate", payload); err != nil {
		return domain.ActionResult{
			Action:  domain.ActionIsolateHost,
			Status:  "failed",
			Details: map[string]any{"error": err.Error()},
		}
	}

	return domain.ActionResult{
		Action:  domain.ActionIsolateHost,
		Status:  "executed",
		Details: map[string]any{"edr": config.EDRBaseURL},
	}
}

// blockIP calls the client's firewall API.
func (e *Executor) blockIP(ctx context.Context, assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ActionResult {
	if config.FirewallBaseURL == "" {
		return domain.ActionResult{
			Action:  domain.ActionBlockIP,
			Status:  "executed",
			Details: map[string]any{"note": "firewall integration not configured"},
		}
	}

	payload := map[string]any{
		"client_id": config.ClientID,
		"reason":    assessment.ThreatSummary,
		"category":  assessment.ThreatCategory,
	}
	if err := e.post(ctx, config.FirewallBaseURL+"/v1/rules/block", payload); err != nil {
		return domain.ActionResult{
			Action:  domain.ActionBlockIP,
			Status:  "failed",
			Details: map[string]any{"error": err.Error()},
		}
	}

	return domain.ActionResult{
		Action:  domain.ActionBlockIP,
		Status:  "executed",
		Details: map[string]any{"firewall": config.FirewallBaseURL},
	}
}

func (e *Executor) alertAnalyst(assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ActionResult {
	if e.notifier == nil {
		return domain.ActionResult{
			Action:  domain.ActionAlertAnalyst,
			Status:  "notified",
			Details: map[string]any{"note": "notifier not configured"},
		}
	}

	if err := e.notifier.NotifyAssessment(assessment, nil); err != nil {
		return domain.ActionResult{
			Action:  domain.ActionAlertAnalyst,
			Status:  "failed",
			Details: map[string]any{"error": err.Error()},
		}
	}

	return domain.ActionResult{
		Action:  domain.ActionAlertAnalyst,
		Status:  "notified",
		Details: map[string]any{"channel": config.AnalystChannel},
	}
}

func (e *Executor) createIncident(ctx context.Context, assessment domain.ThreatAssessment, config domain.ClientConfig, ticketOnly bool) domain.ActionResult {
	action := domain.ActionCreateIncident
	if ticketOnly {
		action = domain.ActionCreateTicket
	}

	inc := ports.Incident{
		ID:         uuid.NewString(),
		ClientID:   config.ClientID,
		Severity:   assessment.Severity,
		Category:   assessment.ThreatCategory,
		Summary:    assessment.ThreatSummary,
		Status:     "open",
		OpenedAt:   time.Now().UTC(),
		TicketOnly: ticketOnly,
	}

	if e.repo != nil {
		if err := e.repo.SaveIncident(ctx, inc); err != nil {
			return domain.ActionResult{
				Action:  action,
				Status:  "failed",
				Details: map[string]any{"error": err.Error()},
			}
		}
	}

	return domain.ActionResult{
		Action:  action,
		Status:  "created",
		Details: map[string]any{"incident_id": inc.ID, "queue": config.TicketQueue},
	}
}

func (e *Executor) logEvent(assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ActionResult {
	log.Printf("📋 [%s] %s threat logged for client %s: %s",
		assessment.Severity, assessment.ThreatCategory, config.ClientID, assessment.ThreatSummary)

	return domain.ActionResult{
		Action: domain.ActionLogEvent,
		Status: "logged",
	}
}

func (e *Executor) post(ctx context.Context, url string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
