package domain

type KillChainStage string

const (
	StageReconnaissance KillChainStage = "reconnaissance"
	StageWeaponization  KillChainStage = "weaponization"
	StageDelivery       KillChainStage = "delivery"
	StageExploitation   KillChainStage = "exploitation"
	StageInstallation   KillChainStage = "installation"
	StageC2             KillChainStage = "c2"
	StageActions        KillChainStage = "actions"
)

type ResponseRecommendation string

const (
	RespondImmediately ResponseRecommendation = "immediate_action"
	RespondInvestigate ResponseRecommendation = "investigate"
	RespondMonitor     ResponseRecommendation = "monitor"
	RespondClose       ResponseRecommendation = "close"
)

// TriageResult is the correlation judgment over a cluster of alerts.
//
// On failure the detector returns only Error and IsCoordinatedAttack=false;
// the remaining fields stay zero and mean "unknown", not negative evidence.
// Correlation has no safe default, so there is no rich fallback here.
type TriageResult struct {
	IsCoordinatedAttack  bool                   `json:"is_coordinated_attack"`
	AttackNarrative      string                 `json:"attack_narrative,omitempty"`
	KillChainStage       KillChainStage         `json:"kill_chain_stage,omitempty"`
	ConsolidatedSeverity Severity               `json:"consolidated_severity,omitempty"`
	PriorityScore        int                    `json:"priority_score,omitempty"`
	RecommendedResponse  ResponseRecommendation `json:"recommended_response,omitempty"`
	EstimatedBlastRadius string                 `json:"estimated_blast_radius,omitempty"`
	Error                string                 `json:"error,omitempty"`
}
