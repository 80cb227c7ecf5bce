package store

import (
	"context"
	"errors"
	"time"

	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/store/ch"
)

// chClient is the subset of *ch.CH the adapter drives
type chClient interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Close() error
}

func newCHAdapter(c chClient) *clickhouseAdapter {
	return &clickhouseAdapter{inner: c}
}

// clickhouseAdapter adapts the ch client to the store.Clickhouse seam
// and logs statements when log is set
type clickhouseAdapter struct {
	inner chClient
	log   *logger.Logger
}

var _ Clickhouse = (*clickhouseAdapter)(nil)

func (a *clickhouseAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	start := time.Now()
	err := a.inner.Exec(ctx, sql, args...)
	a.trace(sql, -1, start, err)
	return err
}

func (a *clickhouseAdapter) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	start := time.Now()
	err := a.inner.Insert(ctx, table, columns, rows)
	a.trace(ch.InsertSQL(table, columns), len(rows), start, err)
	return err
}

func (a *clickhouseAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	r, err := a.inner.Query(ctx, sql, args...)
	a.trace(sql, -1, start, err)
	if err != nil {
		return nil, err
	}
	return &rowsAdapter{r: r}, nil
}

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// Ping verifies connectivity with ClickHouse
func (a *clickhouseAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.inner.Ping(ctx)
}

func (a *clickhouseAdapter) trace(sql string, rows int, start time.Time, err error) {
	if a.log == nil {
		return
	}
	evt := a.log.Info()
	if err != nil {
		evt = a.log.Warn().Err(err)
	}
	if rows >= 0 {
		evt = evt.Int("rows", rows)
	}
	evt.Float64("elapsed_ms", float64(time.Since(start).Microseconds())/1000.0).
		Str("sql", sql).
		Msg("ch statement")
}

// rowsAdapter wraps ch.Rows as store.Rows
type rowsAdapter struct {
	r ch.Rows
}

func (r *rowsAdapter) Next() bool             { return r.r.Next() }
func (r *rowsAdapter) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r *rowsAdapter) Err() error             { return r.r.Err() }
func (r *rowsAdapter) Close()                 { _ = r.r.Close() }
func (r *rowsAdapter) Columns() []string      { return r.r.Columns() }
