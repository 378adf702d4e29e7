package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hive-corporation/autosoc/internal/adapter/llm"
	"github.com/hive-corporation/autosoc/internal/core/domain"
	"github.com/hive-corporation/autosoc/internal/core/ports"
	"github.com/hive-corporation/autosoc/internal/core/service"
)

type RestHandler struct {
	detector  *service.ThreatDetector
	engine    *service.AutoResponseEngine
	repo      ports.IncidentRepository
	notifier  ports.Notifier
	publisher ports.EventPublisher
}

// NewRestHandler wires the pipeline entry points. repo, notifier and
// publisher may be nil; the handler then skips the matching side effects.
func NewRestHandler(detector *service.ThreatDetector, engine *service.AutoResponseEngine, repo ports.IncidentRepository, notifier ports.Notifier, publisher ports.EventPublisher) *RestHandler {
	return &RestHandler{
		detector:  detector,
		engine:    engine,
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
	}
}

// Health check endpoint
func (h *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "autosoc-api",
	}
	writeJSON(w, http.StatusOK, response)
}

type analyzeRequest struct {
	Event        domain.LogEvent     `json:"event"`
	ClientConfig domain.ClientConfig `json:"client_config"`
	AutoRespond  bool                `json:"auto_respond"`
}

// AnalyzeEvent runs a single log event through the detector and, when
// requested, straight into the response engine.
func (h *RestHandler) AnalyzeEvent(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.Event == nil {
		writeError(w, http.StatusBadRequest, "missing 'event' field")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	assessment := h.detector.AnalyzeEvent(ctx, payload.Event)
	llm.RecordAnalysis(assessment.Provider, string(assessment.Severity))

	if h.publisher != nil {
		if err := h.publisher.PublishAssessment(assessment, payload.Event); err != nil {
			log.Printf("⚠️  Failed to publish assessment: %v", err)
		}
	}

	response := map[string]interface{}{
		"assessment": assessment,
	}

	if payload.AutoRespond {
		result := h.respond(ctx, assessment, payload.ClientConfig)
		response["response"] = result
	}

	writeJSON(w, http.StatusOK, response)
}

type triageRequest struct {
	Alerts []domain.LogEvent `json:"alerts"`
}

// TriageCluster correlates a cluster of alerts. The result is
// informational: it is never fed back into the response engine here.
func (h *RestHandler) TriageCluster(w http.ResponseWriter, r *http.Request) {
	var payload triageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(payload.Alerts) == 0 {
		writeError(w, http.StatusBadRequest, "missing 'alerts' field")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result := h.detector.TriageAlertCluster(ctx, payload.Alerts)

	if h.notifier != nil && result.IsCoordinatedAttack {
		if err := h.notifier.NotifyTriage(result, len(payload.Alerts)); err != nil {
			log.Printf("⚠️  Failed to send triage notification: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

type respondRequest struct {
	Assessment   domain.ThreatAssessment `json:"assessment"`
	ClientConfig domain.ClientConfig     `json:"client_config"`
}

// ExecuteResponse runs the playbook for an already-produced assessment.
func (h *RestHandler) ExecuteResponse(w http.ResponseWriter, r *http.Request) {
	var payload respondRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result := h.respond(ctx, payload.Assessment, payload.ClientConfig)
	writeJSON(w, http.StatusOK, result)
}

type weeklyReportRequest struct {
	WeekData map[string]any `json:"week_data"`
	Deliver  bool           `json:"deliver"`
}

// WeeklyReport generates the plain-English weekly report and optionally
// delivers it through the notifier.
func (h *RestHandler) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	var payload weeklyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	report := h.detector.GenerateWeeklyReport(ctx, payload.WeekData)

	delivered := false
	if payload.Deliver && h.notifier != nil {
		if err := h.notifier.DeliverWeeklyReport(report); err != nil {
			log.Printf("⚠️  Failed to deliver weekly report: %v", err)
		} else {
			delivered = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report":    report,
		"delivered": delivered,
	})
}

func (h *RestHandler) respond(ctx context.Context, assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ResponseResult {
	result := h.engine.ExecuteResponse(ctx, assessment, config)

	if h.repo != nil {
		audit := ports.ResponseAudit{
			ID:        uuid.NewString(),
			ClientID:  config.ClientID,
			Severity:  result.Severity,
			Actions:   result.PlaybookExecuted,
			AutoRun:   result.AutoExecuted,
			Results:   result.ActionsTaken,
			CreatedAt: result.Timestamp,
		}
		if err := h.repo.SaveAuditBatch(ctx, []ports.ResponseAudit{audit}); err != nil {
			log.Printf("⚠️  Failed to persist response audit: %v", err)
		}
	}

	if h.publisher != nil {
		if err := h.publisher.PublishResponse(result); err != nil {
			log.Printf("⚠️  Failed to publish response result: %v", err)
		}
	}

	return result
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
