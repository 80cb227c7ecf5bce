package service

import (
	"context"
	"testing"

	perr "factsongs/internal/platform/errors"
	edomain "factsongs/internal/services/extract/domain"
	tdomain "factsongs/internal/services/transform/domain"
)

// blockingExtract holds the run open until release is closed
type blockingExtract struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingExtract) Run(_ context.Context, date string) (edomain.Result, error) {
	close(b.entered)
	<-b.release
	return edomain.Result{Date: date}, nil
}

type okTransform struct{ calls int }

func (o *okTransform) Run(_ context.Context, date string) (tdomain.Result, error) {
	o.calls++
	return tdomain.Result{Date: date}, nil
}

func TestRunsAreSerialised(t *testing.T) {
	t.Parallel()

	ex := &blockingExtract{entered: make(chan struct{}), release: make(chan struct{})}
	tr := &okTransform{}
	svc := New(ex, tr)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Extract(context.Background(), "2024-03-05")
		done <- err
	}()
	<-ex.entered

	if _, err := svc.Transform(context.Background(), "2024-03-05"); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("concurrent transform err=%v want conflict", err)
	}
	if tr.calls != 0 {
		t.Fatalf("transform ran while extract held the lock")
	}

	close(ex.release)
	if err := <-done; err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := svc.Transform(context.Background(), "2024-03-05"); err != nil {
		t.Fatalf("transform after release: %v", err)
	}
}

func TestUnconfiguredStage(t *testing.T) {
	t.Parallel()

	svc := New(nil, nil)
	if _, err := svc.Extract(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("extract err=%v want unavailable", err)
	}
	if _, err := svc.Transform(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("transform err=%v want unavailable", err)
	}
}
