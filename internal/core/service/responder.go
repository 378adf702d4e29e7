package service

import (
	"context"
	"log"
	"time"

	"github.com/hive-corporation/autosoc/internal/core/domain"
	"github.com/hive-corporation/autosoc/internal/core/ports"
)

// AutoResponseEngine maps an assessment's severity to its playbook and,
// when the playbook allows it, runs the actions through the executor.
type AutoResponseEngine struct {
	executor ports.ActionExecutor
}

func NewAutoResponseEngine(executor ports.ActionExecutor) *AutoResponseEngine {
	return &AutoResponseEngine{executor: executor}
}

// ExecuteResponse runs the playbook for the assessment's severity.
//
// Actions execute strictly in playbook order: later actions like
// create_incident may depend on earlier ones like isolate_host having been
// attempted, so this loop must never be parallelized. Every executor call
// yields exactly one ActionResult regardless of external success; the
// engine accumulates results without interpreting them.
func (e *AutoResponseEngine) ExecuteResponse(ctx context.Context, assessment domain.ThreatAssessment, config domain.ClientConfig) domain.ResponseResult {
	playbook := domain.PlaybookFor(assessment.Severity)

	result := domain.ResponseResult{
		Severity:         assessment.Severity,
		PlaybookExecuted: playbook.Actions,
		AutoExecuted:     playbook.AutoExecute,
		Timestamp:        time.Now().UTC(),
		ActionsTaken:     []domain.ActionResult{},
	}

	if !playbook.AutoExecute {
		// The action list is still echoed for visibility, but nothing runs.
		return result
	}

	for _, action := range playbook.Actions {
		log.Printf("⚙️  Executing action: %s (client: %s)", action, config.ClientID)
		result.ActionsTaken = append(result.ActionsTaken, e.executor.Execute(ctx, action, assessment, config))
	}

	return result
}
