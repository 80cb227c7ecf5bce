// Package guardrails keeps pipeline runs from overlapping across processes
// and bounds how long one run may take
package guardrails

import (
	"context"
	"fmt"
	"os"
	"time"

	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/store"
	"factsongs/internal/services/runlog/domain"
)

// ErrLeaseHeld signals another process is running the pipeline
var ErrLeaseHeld = perr.Conflictf("runlog: pipeline lease held by another process")

const defaultTTL = 30 * time.Minute

// Lease claims a row in etl_leases for the length of one run.
// Expired claims are reclaimed, so a crashed holder blocks others for at most TTL.
// The run's context is bounded by TTL so it never outlives its claim.
type Lease struct {
	DB    store.TxRunner
	Owner string
	TTL   time.Duration
}

var _ domain.GuardPort = (*Lease)(nil)

// NewLease builds a lease owned by this host and pid; a nil db disables it
func NewLease(db store.TxRunner, ttl time.Duration) *Lease {
	host, _ := os.Hostname()
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Lease{DB: db, Owner: fmt.Sprintf("%s:%d", host, os.Getpid()), TTL: ttl}
}

// Do runs fn while holding name
func (l *Lease) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	if l == nil || l.DB == nil {
		return fn(ctx)
	}
	claimed, err := l.claim(ctx, name)
	if err != nil {
		return perr.FromPostgres(err, "runlog: claim lease")
	}
	if !claimed {
		return ErrLeaseHeld
	}
	defer l.release(name)

	runCtx, cancel := WithBudget(ctx, l.TTL)
	defer cancel()
	return fn(runCtx)
}

func (l *Lease) claim(ctx context.Context, name string) (bool, error) {
	var claimed bool
	err := l.DB.Tx(ctx, func(q store.RowQuerier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO etl_leases (name, owner, claimed_at, expires_at)
			VALUES ($1, $2, now(), now() + ($3)::interval)
			ON CONFLICT (name) DO UPDATE
			SET owner = EXCLUDED.owner, claimed_at = EXCLUDED.claimed_at, expires_at = EXCLUDED.expires_at
			WHERE etl_leases.expires_at <= now()
			RETURNING true
		`, name, l.Owner, toInterval(l.TTL)).Scan(&claimed)
		if store.IsNoRows(err) {
			return nil
		}
		return err
	})
	return claimed, err
}

// release expires the claim; it runs detached from the run context, which may be cancelled
func (l *Lease) release(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := l.DB.Exec(ctx, `
		UPDATE etl_leases SET expires_at = now()
		WHERE name = $1 AND owner = $2
	`, name, l.Owner); err != nil {
		logger.Named("runlog").Warn().Err(err).Str("lease", name).Msg("lease not released, it expires on its own")
	}
}

func toInterval(d time.Duration) string { return fmt.Sprintf("%d seconds", int64(d/time.Second)) }
