// Package module implements the transform service module
package module

import (
	"factsongs/internal/adapters/snapshot"
	"factsongs/internal/adapters/users"
	"factsongs/internal/adapters/warehouse"
	"factsongs/internal/core/keys"
	"factsongs/internal/modkit"
	phttp "factsongs/internal/platform/net/http"
	rundomain "factsongs/internal/services/runlog/domain"
	"factsongs/internal/services/transform/domain"
	"factsongs/internal/services/transform/service"
)

// Ports exposed by the transform module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the transform service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the transform module over already opened adapters
// reg may be nil, in which case dim_user is not produced; guard may be nil too
func New(deps modkit.Deps, snaps snapshot.Store, reg users.Registry, loader warehouse.Loader, ledger rundomain.LedgerPort, guard rundomain.GuardPort) (*Module, error) {
	opts := FromConfig(deps.Cfg)
	gen, err := keys.ByName(opts.KeyKind)
	if err != nil {
		return nil, err
	}
	svc := service.New(snaps, reg, loader, gen, ledger, deps.Metrics, service.Config{Domain: opts.Domain})
	svc.Guard = guard
	return &Module{deps: deps, ports: Ports{Runner: svc}}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "transform" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Runner returns the run port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// MountRoutes satisfies modkit.Module; runs are triggered through the trigger module
func (m *Module) MountRoutes(phttp.Router) {}
