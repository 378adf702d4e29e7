package domain

import "time"

// ClientConfig carries the per-client integration settings an action
// handler needs: where the client's EDR and firewall APIs live, and how
// tickets are filed. Values are read-only from the engine's point of view.
type ClientConfig struct {
	ClientID         string `json:"client_id"`
	EDRBaseURL       string `json:"edr_base_url,omitempty"`
	FirewallBaseURL  string `json:"firewall_base_url,omitempty"`
	TicketQueue      string `json:"ticket_queue,omitempty"`
	AnalystChannel   string `json:"analyst_channel,omitempty"`
	EscalationTarget string `json:"escalation_target,omitempty"`
}

// ActionResult is the record one action handler returns. Only Action and
// Status are guaranteed; Details carries action-specific fields (target
// host, blocked IP, incident ID) the engine passes through unmodified.
type ActionResult struct {
	Action  Action         `json:"action"`
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ResponseResult is the per-alert outcome of a playbook run. ActionsTaken
// holds one ActionResult per executed action in playbook order, and is
// empty when the playbook is not auto-executed.
type ResponseResult struct {
	Severity         Severity       `json:"severity"`
	PlaybookExecuted []Action       `json:"playbook_executed"`
	AutoExecuted     bool           `json:"auto_executed"`
	Timestamp        time.Time      `json:"timestamp"`
	ActionsTaken     []ActionResult `json:"actions_taken"`
}
