package modkit

import (
	"testing"

	"factsongs/internal/platform/config"
)

func TestDeps_ZeroValue_IsOK(t *testing.T) {
	t.Parallel()
	var d Deps
	if !d.ZeroOK() {
		t.Fatal("zero-value Deps should be safe in tests (ZeroOK == true)")
	}
}

func TestDeps_Store_CarriesSeams(t *testing.T) {
	t.Parallel()

	d := Deps{Cfg: config.New()}
	s := d.Store()
	if s == nil {
		t.Fatal("Store() returned nil")
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("zero deps should give empty seams, got PG=%v CH=%v", s.PG, s.CH)
	}
}
