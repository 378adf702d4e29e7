package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/hive-corporation/autosoc/internal/core/domain"
	"github.com/hive-corporation/autosoc/internal/core/ports"
)

// maxTriageAlerts bounds prompt size and cost. Callers needing correlation
// across more alerts must pre-batch.
const maxTriageAlerts = 20

// reportFailureText is returned whenever report generation fails; this path
// feeds a notification, not a decision, so a fixed apology beats an error.
const reportFailureText = "Report generation failed. Please contact support."

// ThreatDetector turns raw log events into structured threat assessments
// through the classification backend, degrading to deterministic output
// whenever the backend cannot be used or trusted.
type ThreatDetector struct {
	classifier ports.Classifier
}

func NewThreatDetector(classifier ports.Classifier) *ThreatDetector {
	return &ThreatDetector{classifier: classifier}
}

// AnalyzeEvent analyzes a single log event. It always returns a well-formed
// assessment and never an error: transport failures, non-JSON replies and
// schema violations all degrade to the fixed fallback assessment, which is
// recognizable by Provider == "fallback".
func (d *ThreatDetector) AnalyzeEvent(ctx context.Context, event domain.LogEvent) domain.ThreatAssessment {
	eventJSON, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		log.Printf("⚠️  Failed to serialize log event: %v", err)
		return domain.FallbackAssessment(time.Now())
	}

	prompt := threatDetectionPrompt + "\n\nLog Event:\n" + string(eventJSON)

	reply, err := d.classifier.Submit(ctx, prompt)
	if err != nil {
		log.Printf("⚠️  Threat detection error: %v", err)
		return domain.FallbackAssessment(time.Now())
	}

	assessment, err := parseAssessment(reply)
	if err != nil {
		log.Printf("⚠️  Failed to parse classifier response: %v", err)
		return domain.FallbackAssessment(time.Now())
	}

	// The detector owns the provenance fields; whatever the classifier may
	// have emitted for them is discarded.
	assessment.AnalyzedAt = time.Now().UTC()
	assessment.Provider = d.classifier.Name()
	return assessment
}

// TriageAlertCluster judges whether a set of alerts forms one coordinated
// campaign. At most 20 alerts are submitted. There is no rich fallback:
// correlation has no safe default, so failures surface as the reduced
// error shape with all other fields unknown.
func (d *ThreatDetector) TriageAlertCluster(ctx context.Context, alerts []domain.LogEvent) domain.TriageResult {
	if len(alerts) > maxTriageAlerts {
		alerts = alerts[:maxTriageAlerts]
	}

	alertsJSON, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		log.Printf("⚠️  Triage error: %v", err)
		return domain.TriageResult{Error: err.Error(), IsCoordinatedAttack: false}
	}

	prompt := alertTriagePrompt + "\n\nAlerts:\n" + string(alertsJSON)

	reply, err := d.classifier.Submit(ctx, prompt)
	if err != nil {
		log.Printf("⚠️  Triage error: %v", err)
		return domain.TriageResult{Error: err.Error(), IsCoordinatedAttack: false}
	}

	result, err := parseTriage(reply)
	if err != nil {
		log.Printf("⚠️  Failed to parse triage response: %v", err)
		return domain.TriageResult{Error: err.Error(), IsCoordinatedAttack: false}
	}

	return result
}

// GenerateWeeklyReport produces a plain-English weekly report for a
// non-technical reader. The returned text is opaque prose; no structural
// validation is performed on it.
func (d *ThreatDetector) GenerateWeeklyReport(ctx context.Context, weekData map[string]any) string {
	dataJSON, err := json.MarshalIndent(weekData, "", "  ")
	if err != nil {
		log.Printf("⚠️  Report generation error: %v", err)
		return reportFailureText
	}

	prompt := reportGenerationPrompt + "\n\nWeek's Security Data:\n" + string(dataJSON)

	report, err := d.classifier.Submit(ctx, prompt)
	if err != nil {
		log.Printf("⚠️  Report generation error: %v", err)
		return reportFailureText
	}

	return report
}

func parseAssessment(reply string) (domain.ThreatAssessment, error) {
	var assessment domain.ThreatAssessment
	if err := json.Unmarshal([]byte(extractJSON(reply)), &assessment); err != nil {
		return domain.ThreatAssessment{}, err
	}

	assessment.Severity = domain.Severity(strings.ToLower(strings.TrimSpace(string(assessment.Severity))))
	assessment.ThreatCategory = domain.ThreatCategory(strings.ToLower(strings.TrimSpace(string(assessment.ThreatCategory))))
	assessment.FalsePositiveLikelihood = domain.FalsePositiveLikelihood(strings.ToLower(strings.TrimSpace(string(assessment.FalsePositiveLikelihood))))
	if !assessment.FalsePositiveLikelihood.Valid() {
		assessment.FalsePositiveLikelihood = domain.FPLikelihoodUnknown
	}

	// Minor numeric drift is tolerated; enum violations are not.
	if assessment.Confidence < 0 {
		assessment.Confidence = 0
	}
	if assessment.Confidence > 1 {
		assessment.Confidence = 1
	}

	if err := assessment.Validate(); err != nil {
		return domain.ThreatAssessment{}, err
	}
	return assessment, nil
}

func parseTriage(reply string) (domain.TriageResult, error) {
	var result domain.TriageResult
	if err := json.Unmarshal([]byte(extractJSON(reply)), &result); err != nil {
		return domain.TriageResult{}, err
	}
	if result.PriorityScore < 1 {
		result.PriorityScore = 1
	}
	if result.PriorityScore > 100 {
		result.PriorityScore = 100
	}
	return result, nil
}

// extractJSON strips markdown code fences some models wrap around JSON.
func extractJSON(reply string) string {
	jsonStr := reply
	if idx := strings.Index(reply, "```json"); idx != -1 {
		jsonStr = reply[idx+7:]
		if endIdx := strings.Index(jsonStr, "```"); endIdx != -1 {
			jsonStr = jsonStr[:endIdx]
		}
	} else if idx := strings.Index(reply, "```"); idx != -1 {
		jsonStr = reply[idx+3:]
		if endIdx := strings.Index(jsonStr, "```"); endIdx != -1 {
			jsonStr = jsonStr[:endIdx]
		}
	}
	return strings.TrimSpace(jsonStr)
}
