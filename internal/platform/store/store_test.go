package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"factsongs/internal/platform/store/ch"

	"github.com/rs/zerolog"
)

type fakeTx struct {
	fakeQuerier
	pingErr error
	closed  bool
}

func (f *fakeTx) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }
func (f *fakeTx) Ping(context.Context) error                                { return f.pingErr }
func (f *fakeTx) Close() error                                              { f.closed = true; return nil }

type fakeCH struct {
	pingErr   error
	execSQL   []string
	inserted  map[string][][]any
	insertErr error
	closed    bool
}

func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execSQL = append(f.execSQL, sql)
	return nil
}
func (f *fakeCH) Insert(_ context.Context, table string, _ []string, rows [][]any) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.inserted == nil {
		f.inserted = map[string][][]any{}
	}
	f.inserted[table] = append(f.inserted[table], rows...)
	return nil
}
func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	return nil, errors.New("no reads")
}
func (f *fakeCH) Close() error { f.closed = true; return nil }

func TestOpen_InjectedSeamsSkipDial(t *testing.T) {
	tx := &fakeTx{}
	c := newCHAdapter(&fakeCH{})
	cfg := Config{
		PG: PGConfig{Enabled: true, URL: "://never-dialed"},
		CH: CHConfig{Enabled: true, URL: "://never-dialed"},
	}
	s, err := Open(context.Background(), cfg, WithPG(tx), WithCH(c))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != tx || s.CH != c {
		t.Fatalf("injected seams not kept")
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !tx.closed {
		t.Fatalf("pg seam not closed")
	}
}

func TestOpen_PGBadURL_BubblesError(t *testing.T) {
	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_CHBadURL_BubblesError(t *testing.T) {
	_, err := Open(context.Background(), Config{CH: CHConfig{Enabled: true, URL: ""}})
	if err == nil {
		t.Fatalf("expected error for empty clickhouse url")
	}
}

func TestGuard(t *testing.T) {
	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should error")
	}

	s := &Store{}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("empty store guard: %v", err)
	}

	s = &Store{
		PG: &fakeTx{pingErr: errors.New("pg down")},
		CH: newCHAdapter(&fakeCH{pingErr: errors.New("ch down")}),
	}
	err := s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pg: pg down") || !strings.Contains(err.Error(), "ch: ch down") {
		t.Fatalf("Guard = %v", err)
	}
}

func TestCHAdapter_TracesStatements(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	inner := &fakeCH{}
	a := newCHAdapter(inner)
	a.log = &l

	ctx := context.Background()
	if err := a.Exec(ctx, "TRUNCATE TABLE t"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if err := a.Insert(ctx, "t", []string{"a"}, [][]any{{1}, {2}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(inner.inserted["t"]) != 2 {
		t.Fatalf("rows not forwarded: %v", inner.inserted)
	}
	out := buf.String()
	if !strings.Contains(out, "TRUNCATE TABLE t") || !strings.Contains(out, `"rows":2`) {
		t.Fatalf("trace output missing statements: %s", out)
	}

	inner.insertErr = errors.New("nope")
	if err := a.Insert(ctx, "t", []string{"a"}, [][]any{{1}}); err == nil {
		t.Fatalf("expected insert error")
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("failed insert should log at warn")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Log.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("logger not applied")
	}
}
