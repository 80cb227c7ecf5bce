// Package pipeline opens the shared adapters and assembles the run modules
// the three entry points need
package pipeline

import (
	"context"
	"errors"

	"factsongs/internal/adapters/snapshot"
	"factsongs/internal/adapters/users"
	"factsongs/internal/adapters/warehouse"
	"factsongs/internal/modkit"
	"factsongs/internal/platform/config"
	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/metrics"
	"factsongs/internal/platform/store"
	extractmod "factsongs/internal/services/extract/module"
	runlogmod "factsongs/internal/services/runlog/module"
	transformmod "factsongs/internal/services/transform/module"
)

// Stage selects which run modules to build
type Stage uint8

// Stages
const (
	Extract Stage = 1 << iota
	Transform
)

// Pipeline holds the opened adapters and the run modules built over them
type Pipeline struct {
	Deps      modkit.Deps
	Store     *store.Store
	Snapshots snapshot.Store

	Runlog    *runlogmod.Module
	Extract   *extractmod.Module
	Transform *transformmod.Module
}

// OpenStore opens whichever of postgres and clickhouse has a DBURL configured
func OpenStore(ctx context.Context, root config.Conf, tag string) (*store.Store, error) {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	pgURL := pg.MayString("DBURL", "")
	chURL := ch.MayString("DBURL", "")

	return store.Open(ctx, store.Config{
		AppName: "factsongs-" + tag,
		PG: store.PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			LogSQL:     ch.MayBool("LOG_SQL", false),
			ClientName: "factsongs",
			ClientTag:  tag,
		},
	}, store.WithLogger(*logger.Named("store")))
}

// New builds the modules for stages over st
func New(ctx context.Context, root config.Conf, st *store.Store, stages Stage) (*Pipeline, error) {
	deps := modkit.Deps{
		Log:     st.Log,
		Cfg:     root,
		PG:      st.PG,
		CH:      st.CH,
		Metrics: metrics.Default(),
	}

	snaps, err := snapshot.Open(ctx, snapshot.FromConfig(root))
	if err != nil {
		return nil, err
	}
	p := &Pipeline{Deps: deps, Store: st, Snapshots: snaps}

	p.Runlog = runlogmod.New(deps)
	if err := p.Runlog.Service().EnsureSchema(ctx); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("pipeline: run ledger schema not created")
	}

	reg, err := users.New(users.FromConfig(root), st)
	if err != nil {
		return nil, errors.Join(err, p.Close(ctx))
	}

	if stages&Extract != 0 {
		p.Extract = extractmod.New(deps, snaps, reg, p.Runlog.Ledger(), p.Runlog.Guard())
	}
	if stages&Transform != 0 {
		loader, err := warehouse.New(warehouse.FromConfig(root), st)
		if err != nil {
			return nil, errors.Join(err, p.Close(ctx))
		}
		p.Transform, err = transformmod.New(deps, snaps, reg, loader, p.Runlog.Ledger(), p.Runlog.Guard())
		if err != nil {
			return nil, errors.Join(err, p.Close(ctx))
		}
	}
	return p, nil
}

// Close releases the snapshot backend; the store is owned by the caller
func (p *Pipeline) Close(ctx context.Context) error {
	return snapshot.Close(ctx, p.Snapshots)
}
