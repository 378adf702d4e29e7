package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hive-corporation/autosoc/internal/core/domain"
	"github.com/hive-corporation/autosoc/internal/core/ports"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SaveIncident(ctx context.Context, inc ports.Incident) error {
	query := `
		INSERT INTO incidents (id, client_id, severity, category, summary, status, opened_at, ticket_only)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		inc.ID,
		inc.ClientID,
		inc.Severity,
		inc.Category,
		inc.Summary,
		inc.Status,
		inc.OpenedAt,
		inc.TicketOnly,
	)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SaveAuditBatch(ctx context.Context, audits []ports.ResponseAudit) error {
	batch := &pgx.Batch{}

	query := `
		INSERT INTO response_audits (id, client_id, severity, actions, auto_run, results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	for _, audit := range audits {
		// ActionResults have per-action shapes, so they go in as JSONB.
		resultsJSON, err := json.Marshal(audit.Results)
		if err != nil {
			return fmt.Errorf("failed to marshal action results: %w", err)
		}

		actions := make([]string, len(audit.Actions))
		for i, a := range audit.Actions {
			actions[i] = string(a)
		}

		batch.Queue(query,
			audit.ID,
			audit.ClientID,
			audit.Severity,
			actions,
			audit.AutoRun,
			resultsJSON,
			audit.CreatedAt,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	_, err := br.Exec()
	if err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindIncidentsSince(ctx context.Context, since time.Time, limit int) ([]ports.Incident, error) {
	query := `
		SELECT id, client_id, severity, category, summary, status, opened_at, ticket_only
		FROM incidents
		WHERE opened_at >= $1
		ORDER BY opened_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents since %v: %w", since, err)
	}
	defer rows.Close()

	var incidents []ports.Incident

	for rows.Next() {
		var inc ports.Incident
		var severity, category string
		err := rows.Scan(
			&inc.ID,
			&inc.ClientID,
			&severity,
			&category,
			&inc.Summary,
			&inc.Status,
			&inc.OpenedAt,
			&inc.TicketOnly,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		inc.Severity = domain.Severity(severity)
		inc.Category = domain.ThreatCategory(category)
		incidents = append(incidents, inc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return incidents, nil
}
