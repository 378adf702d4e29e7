package domain

type Action string

const (
	ActionIsolateHost    Action = "isolate_host"
	ActionBlockIP        Action = "block_ip"
	ActionAlertAnalyst   Action = "alert_analyst"
	ActionCreateIncident Action = "create_incident"
	ActionCreateTicket   Action = "create_ticket"
	ActionLogEvent       Action = "log_event"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelSlack Channel = "slack"
)

// Playbook is the fixed response policy for one severity level: which
// actions run, in which order, whether they run automatically, and which
// channels carry the notification.
type Playbook struct {
	Actions              []Action
	AutoExecute          bool
	NotificationChannels []Channel
}

// responsePlaybooks is built once at init and read-only afterwards; no
// mutation API exists, so concurrent readers need no synchronization.
var responsePlaybooks = map[Severity]Playbook{
	SeverityCritical: {
		Actions:              []Action{ActionIsolateHost, ActionBlockIP, ActionAlertAnalyst, ActionCreateIncident},
		AutoExecute:          true,
		NotificationChannels: []Channel{ChannelEmail, ChannelSMS, ChannelSlack},
	},
	SeverityHigh: {
		Actions:              []Action{ActionBlockIP, ActionAlertAnalyst, ActionCreateIncident},
		AutoExecute:          true,
		NotificationChannels: []Channel{ChannelEmail, ChannelSlack},
	},
	SeverityMedium: {
		Actions:              []Action{ActionAlertAnalyst, ActionCreateTicket},
		AutoExecute:          false,
		NotificationChannels: []Channel{ChannelEmail},
	},
	SeverityLow: {
		Actions:              []Action{ActionLogEvent},
		AutoExecute:          false,
		NotificationChannels: []Channel{},
	},
}

// PlaybookFor resolves the playbook for a severity. Severities without an
// entry (info, or anything unrecognized) fall back to the low playbook:
// minimal automated action beats crashing on an unexpected value.
func PlaybookFor(severity Severity) Playbook {
	if pb, ok := responsePlaybooks[severity]; ok {
		return pb
	}
	return responsePlaybooks[SeverityLow]
}
