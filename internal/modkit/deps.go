// Package modkit provides module wiring and core deps
package modkit

import (
	"factsongs/internal/modkit/repokit"
	"factsongs/internal/platform/config"
	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/metrics"
	"factsongs/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Pipeline
}

// Store rebuilds the store facade adapters expect from the seams on d
func (d Deps) Store() *store.Store {
	return &store.Store{Log: d.Log, PG: d.PG, CH: d.CH}
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
