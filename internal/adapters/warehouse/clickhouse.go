package warehouse

import (
	"context"
	"strings"

	"factsongs/internal/core/star"
	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/store"
	"factsongs/internal/platform/store/ch"
)

const stagingSuffix = "__staging"

// Clickhouse loads into a staging copy and swaps it in with EXCHANGE TABLES,
// so readers see either the old or the new contents
type Clickhouse struct {
	db         store.Clickhouse
	database   string
	autoCreate bool
	log        logger.Logger
}

var _ Loader = (*Clickhouse)(nil)

// NewClickhouse builds the loader for tables in database
func NewClickhouse(db store.Clickhouse, database string, autoCreate bool) *Clickhouse {
	return &Clickhouse{db: db, database: database, autoCreate: autoCreate, log: *logger.Named("warehouse.ch")}
}

func (c *Clickhouse) qualified(name string) string { return ch.QuoteIdent(c.database + "." + name) }

// ReplaceTable stages rows then exchanges the staging and target tables
func (c *Clickhouse) ReplaceTable(ctx context.Context, t star.Table) error {
	if err := validTable(t); err != nil {
		return err
	}
	if c.autoCreate {
		if err := c.EnsureTable(ctx, t); err != nil {
			return err
		}
	}
	target := c.qualified(t.Name)
	staging := c.qualified(t.Name + stagingSuffix)

	if err := c.db.Exec(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
		return loadErr(err, t.Name, "drop_staging")
	}
	if err := c.db.Exec(ctx, "CREATE TABLE "+staging+" AS "+target); err != nil {
		return loadErr(err, t.Name, "create_staging")
	}
	if err := c.db.Insert(ctx, c.database+"."+t.Name+stagingSuffix, t.ColumnNames(), t.Rows); err != nil {
		return loadErr(err, t.Name, "insert")
	}
	if err := c.db.Exec(ctx, "EXCHANGE TABLES "+staging+" AND "+target); err != nil {
		return loadErr(err, t.Name, "exchange")
	}
	// staging now holds the previous contents
	if err := c.db.Exec(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
		c.log.Warn().Err(err).Str("table", t.Name).Msg("drop old contents failed")
	}

	logger.C(ctx).Info().Str("table", t.Name).Int("rows", t.Len()).Msg("clickhouse table replaced")
	return nil
}

// EnsureTable creates the database and table when missing
func (c *Clickhouse) EnsureTable(ctx context.Context, t star.Table) error {
	if err := c.db.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+ch.QuoteIdent(c.database)); err != nil {
		return loadErr(err, t.Name, "create_database")
	}
	if err := c.db.Exec(ctx, clickhouseDDL(c.qualified(t.Name), t.Columns)); err != nil {
		return loadErr(err, t.Name, "create_table")
	}
	return nil
}

func clickhouseDDL(table string, cols []star.Column) string {
	defs := make([]string, len(cols))
	for i, col := range cols {
		typ := clickhouseType(col.Type)
		if col.Nullable {
			typ = "Nullable(" + typ + ")"
		}
		defs[i] = ch.QuoteIdent(col.Name) + " " + typ
	}
	return "CREATE TABLE IF NOT EXISTS " + table + " (" + strings.Join(defs, ", ") + ") ENGINE = MergeTree ORDER BY tuple()"
}

func clickhouseType(t star.Type) string {
	switch t {
	case star.Int64:
		return "Int64"
	case star.Bool:
		return "Bool"
	case star.Timestamp:
		return "DateTime64(3, 'UTC')"
	default:
		return "String"
	}
}
