package domain

import (
	"fmt"
	"time"
)

// LogEvent is an unstructured piece of evidence from a log source.
// The pipeline accepts any well-formed key/value shape; no schema is imposed.
type LogEvent map[string]any

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

type ThreatCategory string

const (
	CategoryMalware             ThreatCategory = "malware"
	CategoryIntrusion           ThreatCategory = "intrusion"
	CategoryDataExfiltration    ThreatCategory = "data_exfiltration"
	CategoryPhishing            ThreatCategory = "phishing"
	CategoryDoS                 ThreatCategory = "dos"
	CategoryPrivilegeEscalation ThreatCategory = "privilege_escalation"
	CategoryLateralMovement     ThreatCategory = "lateral_movement"
	CategoryReconnaissance      ThreatCategory = "reconnaissance"
	CategoryPolicyViolation     ThreatCategory = "policy_violation"
	CategoryNone                ThreatCategory = "none"
	CategoryUnknown             ThreatCategory = "unknown"
)

type FalsePositiveLikelihood string

const (
	FPLikelihoodHigh    FalsePositiveLikelihood = "high"
	FPLikelihoodMedium  FalsePositiveLikelihood = "medium"
	FPLikelihoodLow     FalsePositiveLikelihood = "low"
	FPLikelihoodUnknown FalsePositiveLikelihood = "unknown"
)

// ProviderFallback marks an assessment produced in degraded mode, without
// the classifier. Callers check Provider against it to tell a real
// classification from a conservative placeholder.
const ProviderFallback = "fallback"

// ThreatAssessment is the structured judgment produced for one log event.
type ThreatAssessment struct {
	Severity                Severity                `json:"severity"`
	ThreatCategory          ThreatCategory          `json:"threat_category"`
	Confidence              float64                 `json:"confidence"`
	IsThreat                bool                    `json:"is_threat"`
	ThreatSummary           string                  `json:"threat_summary"`
	TechnicalDetails        string                  `json:"technical_details"`
	RecommendedActions      []string                `json:"recommended_actions"`
	MitreAttackTechnique    string                  `json:"mitre_attack_technique,omitempty"`
	FalsePositiveLikelihood FalsePositiveLikelihood `json:"false_positive_likelihood"`
	RequiresImmediateAction bool                    `json:"requires_immediate_action"`
	AnalyzedAt              time.Time               `json:"analyzed_at"`
	Provider                string                  `json:"provider"`
}

// FallbackAssessment is the fixed conservative assessment used when the
// classifier is unavailable or its reply cannot be trusted. It flags the
// event for a human instead of assuming safe or assuming critical.
func FallbackAssessment(now time.Time) ThreatAssessment {
	return ThreatAssessment{
		Severity:                SeverityMedium,
		ThreatCategory:          CategoryUnknown,
		Confidence:              0.3,
		IsThreat:                false,
		ThreatSummary:           "Unable to analyze — requires manual review",
		TechnicalDetails:        "AI analysis unavailable",
		RecommendedActions:      []string{"manual_review"},
		FalsePositiveLikelihood: FPLikelihoodUnknown,
		RequiresImmediateAction: false,
		AnalyzedAt:              now.UTC(),
		Provider:                ProviderFallback,
	}
}

// Validate reports whether the classifier-owned fields form a well-formed
// assessment. An enum violation means the reply cannot be trusted at all.
func (a ThreatAssessment) Validate() error {
	if !a.Severity.Valid() {
		return fmt.Errorf("invalid severity %q", a.Severity)
	}
	if !a.ThreatCategory.Valid() {
		return fmt.Errorf("invalid threat category %q", a.ThreatCategory)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", a.Confidence)
	}
	if a.ThreatSummary == "" {
		return fmt.Errorf("empty threat summary")
	}
	if a.TechnicalDetails == "" {
		return fmt.Errorf("empty technical details")
	}
	return nil
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

func (c ThreatCategory) Valid() bool {
	switch c {
	case CategoryMalware, CategoryIntrusion, CategoryDataExfiltration,
		CategoryPhishing, CategoryDoS, CategoryPrivilegeEscalation,
		CategoryLateralMovement, CategoryReconnaissance,
		CategoryPolicyViolation, CategoryNone, CategoryUnknown:
		return true
	}
	return false
}

func (l FalsePositiveLikelihood) Valid() bool {
	switch l {
	case FPLikelihoodHigh, FPLikelihoodMedium, FPLikelihoodLow, FPLikelihoodUnknown:
		return true
	}
	return false
}
