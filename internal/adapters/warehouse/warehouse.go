// Package warehouse replaces whole analytical tables: every load leaves the
// target holding exactly the supplied rows
package warehouse

import (
	"context"
	"strings"

	"factsongs/internal/core/star"
	"factsongs/internal/platform/config"
	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/store"
)

// Loader replaces the full contents of one table per call
type Loader interface {
	ReplaceTable(ctx context.Context, t star.Table) error
}

// Backend names
const (
	BackendClickhouse = "clickhouse"
	BackendPostgres   = "postgres"
)

// Config selects the warehouse backend
type Config struct {
	Backend string

	// Dataset is the database (clickhouse) or schema (postgres) holding the tables
	Dataset string

	// AutoCreate creates missing tables from the column layout before loading
	AutoCreate bool
}

// New builds the configured loader over an opened store
func New(cfg Config, st *store.Store) (Loader, error) {
	if cfg.Dataset == "" {
		cfg.Dataset = "fact_songs"
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendClickhouse:
		if st == nil || st.CH == nil {
			return nil, perr.InvalidArgf("warehouse: clickhouse backend needs SERVICE_CLICKHOUSE_DBURL")
		}
		return NewClickhouse(st.CH, cfg.Dataset, cfg.AutoCreate), nil
	case BackendPostgres:
		if st == nil || st.PG == nil {
			return nil, perr.InvalidArgf("warehouse: postgres backend needs SERVICE_PGSQL_DBURL")
		}
		return NewPostgres(st.PG, cfg.Dataset, cfg.AutoCreate), nil
	}
	return nil, perr.InvalidArgf("warehouse: unknown backend %q", cfg.Backend)
}

func validTable(t star.Table) error {
	if t.Name == "" || len(t.Columns) == 0 {
		return perr.InvalidArgf("warehouse: table needs a name and columns")
	}
	for i, r := range t.Rows {
		if len(r) != len(t.Columns) {
			return perr.InvalidArgf("warehouse: %s row %d has %d values, want %d", t.Name, i, len(r), len(t.Columns))
		}
	}
	return nil
}

func loadErr(err error, table, step string) error {
	return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeLoad, "warehouse: %s %s", step, table), "warehouse."+step)
}

// FromConfig reads CORE_WAREHOUSE_* keys
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("CORE_WAREHOUSE_")
	return Config{
		Backend:    c.MayEnum("BACKEND", BackendClickhouse, BackendClickhouse, BackendPostgres),
		Dataset:    c.MayString("DATASET", "fact_songs"),
		AutoCreate: c.MayBool("AUTO_CREATE", false),
	}
}
