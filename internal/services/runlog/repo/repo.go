// Package repo provides postgres access for the etl_runs ledger
package repo

import (
	"context"
	"encoding/json"
	"time"

	"factsongs/internal/modkit/repokit"
	"factsongs/internal/platform/store"
	"factsongs/internal/services/runlog/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// EnsureSchema creates the ledger and lease tables when missing
func (r *queries) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS etl_leases (
			name       text PRIMARY KEY,
			owner      text NOT NULL,
			claimed_at timestamptz NOT NULL,
			expires_at timestamptz NOT NULL
		)
	`); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS etl_runs (
			run_id        text PRIMARY KEY,
			stage         text NOT NULL,
			snapshot_date date NOT NULL,
			started_at    timestamptz NOT NULL,
			finished_at   timestamptz,
			status        text NOT NULL,
			error         text,
			counters      jsonb NOT NULL DEFAULT '{}'::jsonb
		)
	`)
	return err
}

// Start records a running row (idempotent on run id)
func (r *queries) Start(ctx context.Context, run domain.Run) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO etl_runs (run_id, stage, snapshot_date, started_at, status)
		VALUES ($1, $2, $3::date, $4, $5)
		ON CONFLICT (run_id) DO UPDATE
		SET started_at = EXCLUDED.started_at, status = EXCLUDED.status, error = null, finished_at = null
	`, run.ID, run.Stage, run.SnapshotDate, run.StartedAt.UTC(), string(run.Status))
	return err
}

// Finish stamps status, error and counters
func (r *queries) Finish(ctx context.Context, run domain.Run) error {
	counters, err := json.Marshal(run.Counters)
	if err != nil {
		return err
	}
	var finished *time.Time
	if run.FinishedAt != nil {
		t := run.FinishedAt.UTC()
		finished = &t
	}
	_, err = r.q.Exec(ctx, `
		UPDATE etl_runs SET
			finished_at = $2,
			status = $3,
			error = NULLIF($4, ''),
			counters = $5::jsonb
		WHERE run_id = $1
	`, run.ID, finished, string(run.Status), run.Error, string(counters))
	return err
}

// Recent lists the newest runs first
func (r *queries) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	return store.Many(ctx, r.q, scanRun, `
		SELECT run_id, stage, to_char(snapshot_date, 'YYYY-MM-DD'), started_at, finished_at,
		       status, COALESCE(error, ''), counters::text
		FROM etl_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
}

func scanRun(row store.Row) (domain.Run, error) {
	var (
		run      domain.Run
		status   string
		counters string
	)
	if err := row.Scan(&run.ID, &run.Stage, &run.SnapshotDate, &run.StartedAt, &run.FinishedAt,
		&status, &run.Error, &counters); err != nil {
		return domain.Run{}, err
	}
	run.Status = domain.Status(status)
	if counters != "" {
		if err := json.Unmarshal([]byte(counters), &run.Counters); err != nil {
			return domain.Run{}, err
		}
	}
	return run, nil
}
