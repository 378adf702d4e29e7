package ports

import (
	"context"

	"github.com/hive-corporation/autosoc/internal/core/domain"
)

// ActionExecutor performs one named response action against external
// systems (EDR, firewall, ticketing). Implementations must never return an
// error: any internal failure is encoded in the ActionResult's Status so
// the response engine can keep executing the rest of the playbook.
type ActionExecutor interface {
	Execute(ctx context.Context, action domain.Action, assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ActionResult
}
