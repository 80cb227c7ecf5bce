package guardrails

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/store"
)

type fakeRow struct{ err error }

func (r fakeRow) Scan(dst ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dst[0].(*bool)) = true
	return nil
}

type fakeDB struct {
	store.TxRunner
	claimErr error
	execs    []string
}

func (f *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

func (f *fakeDB) QueryRow(context.Context, string, ...any) store.Row { return fakeRow{err: f.claimErr} }

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return nil, nil
}

func TestLease_Do(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		claimErr error
		wantRun  bool
		wantCode perr.ErrorCode
		released bool
	}{
		{name: "claimed", wantRun: true, released: true},
		{name: "held elsewhere", claimErr: store.ErrNoRows, wantCode: perr.ErrorCodeConflict},
		{name: "db down", claimErr: errors.New("conn refused"), wantCode: perr.ErrorCodeDB},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db := &fakeDB{claimErr: tc.claimErr}
			l := NewLease(db, time.Minute)
			ran := false
			err := l.Do(context.Background(), "pipeline", func(ctx context.Context) error {
				ran = true
				if _, ok := ctx.Deadline(); !ok {
					t.Fatal("run context should carry the lease budget")
				}
				return nil
			})
			if ran != tc.wantRun {
				t.Fatalf("ran=%v want %v", ran, tc.wantRun)
			}
			if tc.wantRun && err != nil {
				t.Fatalf("Do: %v", err)
			}
			if !tc.wantRun && !perr.IsCode(err, tc.wantCode) {
				t.Fatalf("err=%v code=%v want %v", err, perr.CodeOf(err), tc.wantCode)
			}
			released := len(db.execs) == 1 && strings.Contains(db.execs[0], "UPDATE etl_leases")
			if released != tc.released {
				t.Fatalf("released=%v want %v (execs %v)", released, tc.released, db.execs)
			}
		})
	}
}

func TestLease_NilDBRunsUnguarded(t *testing.T) {
	t.Parallel()

	var l *Lease
	ran := false
	if err := l.Do(context.Background(), "pipeline", func(context.Context) error { ran = true; return nil }); err != nil || !ran {
		t.Fatalf("nil lease: ran=%v err=%v", ran, err)
	}
	if err := NewLease(nil, 0).Do(context.Background(), "pipeline", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("nil db: %v", err)
	}
}

func TestWithBudget_KeepsEarlierParentDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pdl, _ := parent.Deadline()

	ctx, c2 := WithBudget(parent, time.Hour)
	defer c2()
	if dl, _ := ctx.Deadline(); !dl.Equal(pdl) {
		t.Fatalf("deadline %v extended past parent %v", dl, pdl)
	}

	ctx, c3 := WithBudget(context.Background(), 0)
	defer c3()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero budget should not add a deadline")
	}
}
