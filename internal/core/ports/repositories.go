package ports

import (
	"context"
	"time"

	"github.com/hive-corporation/autosoc/internal/core/domain"
)

// Incident is a tracked security incident opened by the response engine.
type Incident struct {
	ID         string
	ClientID   string
	Severity   domain.Severity
	Category   domain.ThreatCategory
	Summary    string
	Status     string
	OpenedAt   time.Time
	TicketOnly bool
}

// ResponseAudit is one persisted record of an executed (or skipped)
// playbook run, kept as an audit trail.
type ResponseAudit struct {
	ID        string
	ClientID  string
	Severity  domain.Severity
	Actions   []domain.Action
	AutoRun   bool
	Results   []domain.ActionResult
	CreatedAt time.Time
}

type IncidentRepository interface {
	SaveIncident(ctx context.Context, inc Incident) error
	SaveAuditBatch(ctx context.Context, audits []ResponseAudit) error
	FindIncidentsSince(ctx context.Context, since time.Time, limit int) ([]Incident, error)
}
