package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestPlaybookFor(t *testing.T) {
	tests := []struct {
		name        string
		severity    Severity
		wantActions []Action
		wantAuto    bool
	}{
		{
			name:        "critical runs full containment chain",
			severity:    SeverityCritical,
			wantActions: []Action{ActionIsolateHost, ActionBlockIP, ActionAlertAnalyst, ActionCreateIncident},
			wantAuto:    true,
		},
		{
			name:        "high skips host isolation",
			severity:    SeverityHigh,
			wantActions: []Action{ActionBlockIP, ActionAlertAnalyst, ActionCreateIncident},
			wantAuto:    true,
		},
		{
			name:        "medium is manual",
			severity:    SeverityMedium,
			wantActions: []Action{ActionAlertAnalyst, ActionCreateTicket},
			wantAuto:    false,
		},
		{
			name:        "low only logs",
			severity:    SeverityLow,
			wantActions: []Action{ActionLogEvent},
			wantAuto:    false,
		},
		{
			name:        "info falls back to low",
			severity:    SeverityInfo,
			wantActions: []Action{ActionLogEvent},
			wantAuto:    false,
		},
		{
			name:        "unrecognized severity falls back to low",
			severity:    Severity("unknown"),
			wantActions: []Action{ActionLogEvent},
			wantAuto:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := PlaybookFor(tt.severity)

			if !reflect.DeepEqual(pb.Actions, tt.wantActions) {
				t.Errorf("Actions = %v, want %v", pb.Actions, tt.wantActions)
			}

			if pb.AutoExecute != tt.wantAuto {
				t.Errorf("AutoExecute = %v, want %v", pb.AutoExecute, tt.wantAuto)
			}
		})
	}
}

func TestPlaybookNotificationChannels(t *testing.T) {
	if got := PlaybookFor(SeverityCritical).NotificationChannels; len(got) != 3 {
		t.Errorf("critical channels = %v, want email, sms and slack", got)
	}

	if got := PlaybookFor(SeverityLow).NotificationChannels; len(got) != 0 {
		t.Errorf("low channels = %v, want none", got)
	}
}

func TestFallbackAssessmentShape(t *testing.T) {
	fb := FallbackAssessment(time.Now())

	if fb.Severity != SeverityMedium {
		t.Errorf("Severity = %s, want medium", fb.Severity)
	}
	if fb.ThreatCategory != CategoryUnknown {
		t.Errorf("ThreatCategory = %s, want unknown", fb.ThreatCategory)
	}
	if fb.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want 0.3", fb.Confidence)
	}
	if fb.IsThreat {
		t.Error("IsThreat = true, want false")
	}
	if fb.Provider != ProviderFallback {
		t.Errorf("Provider = %s, want %s", fb.Provider, ProviderFallback)
	}
	if fb.RequiresImmediateAction {
		t.Error("RequiresImmediateAction = true, want false")
	}
	if len(fb.RecommendedActions) != 1 || fb.RecommendedActions[0] != "manual_review" {
		t.Errorf("RecommendedActions = %v, want [manual_review]", fb.RecommendedActions)
	}

	// The fallback must itself be a well-formed assessment.
	if err := fb.Validate(); err != nil {
		t.Errorf("fallback assessment failed validation: %v", err)
	}
}

func TestAssessmentValidate(t *testing.T) {
	valid := ThreatAssessment{
		Severity:                SeverityHigh,
		ThreatCategory:          CategoryIntrusion,
		Confidence:              0.9,
		IsThreat:                true,
		ThreatSummary:           "SSH brute force from a single source",
		TechnicalDetails:        "412 failed logins in 3 minutes",
		FalsePositiveLikelihood: FPLikelihoodLow,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("valid assessment rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ThreatAssessment)
	}{
		{"bad severity", func(a *ThreatAssessment) { a.Severity = "catastrophic" }},
		{"bad category", func(a *ThreatAssessment) { a.ThreatCategory = "ransomware" }},
		{"confidence above one", func(a *ThreatAssessment) { a.Confidence = 1.5 }},
		{"negative confidence", func(a *ThreatAssessment) { a.Confidence = -0.1 }},
		{"empty summary", func(a *ThreatAssessment) { a.ThreatSummary = "" }},
		{"empty details", func(a *ThreatAssessment) { a.TechnicalDetails = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			if err := a.Validate(); err == nil {
				t.Error("expected validation error, got none")
			}
		})
	}
}
