package warehouse

import (
	"context"
	"strings"

	"factsongs/internal/core/star"
	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// Postgres truncates and copies inside one transaction
type Postgres struct {
	db         store.TxRunner
	schema     string
	autoCreate bool
}

var _ Loader = (*Postgres)(nil)

// NewPostgres builds the loader for tables in schema
func NewPostgres(db store.TxRunner, schema string, autoCreate bool) *Postgres {
	return &Postgres{db: db, schema: schema, autoCreate: autoCreate}
}

// ReplaceTable truncates then bulk copies; a failure rolls both back
func (p *Postgres) ReplaceTable(ctx context.Context, t star.Table) error {
	if err := validTable(t); err != nil {
		return err
	}
	if p.autoCreate {
		if err := p.EnsureTable(ctx, t); err != nil {
			return err
		}
	}
	ident := pgx.Identifier{p.schema, t.Name}
	var copied int64
	err := p.db.Tx(ctx, func(q store.RowQuerier) error {
		if _, err := q.Exec(ctx, "TRUNCATE TABLE "+ident.Sanitize()); err != nil {
			return loadErr(err, t.Name, "truncate")
		}
		if t.Len() == 0 {
			return nil
		}
		n, err := q.CopyFrom(ctx, ident, t.ColumnNames(), t.Rows)
		if err != nil {
			return loadErr(err, t.Name, "copy")
		}
		copied = n
		return nil
	})
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeLoad) {
			return err
		}
		return loadErr(err, t.Name, "replace")
	}
	logger.C(ctx).Info().Str("table", t.Name).Int64("rows", copied).Msg("postgres table replaced")
	return nil
}

// EnsureTable creates the schema and table when missing
func (p *Postgres) EnsureTable(ctx context.Context, t star.Table) error {
	if _, err := p.db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{p.schema}.Sanitize()); err != nil {
		return loadErr(err, t.Name, "create_schema")
	}
	if _, err := p.db.Exec(ctx, postgresDDL(pgx.Identifier{p.schema, t.Name}, t.Columns)); err != nil {
		return loadErr(err, t.Name, "create_table")
	}
	return nil
}

func postgresDDL(table pgx.Identifier, cols []star.Column) string {
	defs := make([]string, len(cols))
	for i, col := range cols {
		def := pgx.Identifier{col.Name}.Sanitize() + " " + postgresType(col.Type)
		if !col.Nullable {
			def += " NOT NULL"
		}
		defs[i] = def
	}
	return "CREATE TABLE IF NOT EXISTS " + table.Sanitize() + " (" + strings.Join(defs, ", ") + ")"
}

func postgresType(t star.Type) string {
	switch t {
	case star.Int64:
		return "bigint"
	case star.Bool:
		return "boolean"
	case star.Timestamp:
		return "timestamptz"
	default:
		return "text"
	}
}
