// Package service records extract and transform runs in the etl_runs ledger.
// Recording is best-effort: failures are logged and never fail a run.
package service

import (
	"context"
	"time"

	"factsongs/internal/modkit/repokit"
	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/logger"
	"factsongs/internal/services/runlog/domain"

	"github.com/google/uuid"
)

// Ledger implements domain.LedgerPort; a nil DB turns every write into a no-op
type Ledger struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]

	now   func() time.Time
	newID func() string
}

var _ domain.LedgerPort = (*Ledger)(nil)

// New constructs the ledger
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo]) *Ledger {
	return &Ledger{DB: db, Binder: binder, now: time.Now, newID: uuid.NewString}
}

func (l *Ledger) enabled() bool { return l != nil && l.DB != nil && l.Binder != nil }

// EnsureSchema creates the ledger table; errors are returned so bootstrap can log them
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if !l.enabled() {
		return nil
	}
	return l.Binder.Bind(l.DB).EnsureSchema(ctx)
}

// Begin allocates a run id and records the start
func (l *Ledger) Begin(ctx context.Context, stage, date string) domain.Run {
	run := domain.Run{
		ID:           l.newID(),
		Stage:        stage,
		SnapshotDate: date,
		StartedAt:    l.now().UTC(),
		Status:       domain.StatusRunning,
	}
	if l.enabled() {
		if err := l.Binder.Bind(l.DB).Start(ctx, run); err != nil {
			logger.C(ctx).Warn().Err(err).Str("run_id", run.ID).Msg("runlog: start not recorded")
		}
	}
	return run
}

// Finish stamps the outcome and returns the finished run
func (l *Ledger) Finish(ctx context.Context, run domain.Run, counters map[string]int, err error) domain.Run {
	t := l.now().UTC()
	run.FinishedAt = &t
	run.Counters = counters
	run.Status = domain.StatusOK
	if err != nil {
		run.Status = domain.StatusError
		run.Error = err.Error()
	}
	if l.enabled() {
		if werr := l.Binder.Bind(l.DB).Finish(ctx, run); werr != nil {
			logger.C(ctx).Warn().Err(werr).Str("run_id", run.ID).Msg("runlog: finish not recorded")
		}
	}
	return run
}

// Recent lists recent runs; without a database it is unavailable
func (l *Ledger) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	if !l.enabled() {
		return nil, perr.Unavailablef("run ledger needs postgres")
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	runs, err := l.Binder.Bind(l.DB).Recent(ctx, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "runlog: recent")
	}
	return runs, nil
}
