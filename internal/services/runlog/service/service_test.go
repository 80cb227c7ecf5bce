package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"factsongs/internal/modkit/repokit"
	perr "factsongs/internal/platform/errors"
	"factsongs/internal/services/runlog/domain"
)

type fakeRepo struct {
	started  []domain.Run
	finished []domain.Run
	failAll  bool
}

func (f *fakeRepo) EnsureSchema(context.Context) error { return nil }
func (f *fakeRepo) Start(_ context.Context, r domain.Run) error {
	if f.failAll {
		return errors.New("down")
	}
	f.started = append(f.started, r)
	return nil
}
func (f *fakeRepo) Finish(_ context.Context, r domain.Run) error {
	if f.failAll {
		return errors.New("down")
	}
	f.finished = append(f.finished, r)
	return nil
}
func (f *fakeRepo) Recent(context.Context, int) ([]domain.Run, error) {
	return append([]domain.Run(nil), f.finished...), nil
}

// nopTx satisfies repokit.TxRunner; the fake repo never touches it
type nopTx struct{ repokit.TxRunner }

func newLedger(repo *fakeRepo) *Ledger {
	l := New(nopTx{}, repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return repo }))
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	l.newID = func() string { return "run-1" }
	return l
}

func TestBeginFinishRecords(t *testing.T) {
	repo := &fakeRepo{}
	l := newLedger(repo)

	run := l.Begin(context.Background(), domain.StageExtract, "2024-05-01")
	if run.ID != "run-1" || run.Status != domain.StatusRunning || len(repo.started) != 1 {
		t.Fatalf("begin = %+v, started %d", run, len(repo.started))
	}
	done := l.Finish(context.Background(), run, map[string]int{"tracks": 3}, nil)
	if done.Status != domain.StatusOK || done.FinishedAt == nil || repo.finished[0].Counters["tracks"] != 3 {
		t.Fatalf("finish = %+v", done)
	}

	failed := l.Finish(context.Background(), run, nil, errors.New("boom"))
	if failed.Status != domain.StatusError || failed.Error != "boom" {
		t.Fatalf("failed = %+v", failed)
	}
}

func TestLedgerFailuresAreNotFatal(t *testing.T) {
	l := newLedger(&fakeRepo{failAll: true})
	run := l.Begin(context.Background(), domain.StageTransform, "2024-05-01")
	if done := l.Finish(context.Background(), run, nil, nil); done.Status != domain.StatusOK {
		t.Fatalf("status = %s", done.Status)
	}
}

func TestNopLedger(t *testing.T) {
	l := New(nil, nil)
	run := l.Begin(context.Background(), domain.StageExtract, "2024-05-01")
	if run.ID == "" {
		t.Fatalf("nop ledger still hands out run ids")
	}
	_ = l.Finish(context.Background(), run, nil, nil)
	if _, err := l.Recent(context.Background(), 10); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("Recent err = %v", err)
	}
	if err := l.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
}
