// Package module implements the run ledger module
package module

import (
	"net/http"
	"strconv"
	"time"

	"factsongs/internal/modkit"
	"factsongs/internal/modkit/httpkit"
	phttp "factsongs/internal/platform/net/http"
	"factsongs/internal/services/runlog/domain"
	"factsongs/internal/services/runlog/guardrails"
	"factsongs/internal/services/runlog/repo"
	"factsongs/internal/services/runlog/service"
)

// Ports exposed by the runlog module
type Ports struct {
	Ledger domain.LedgerPort
	Guard  domain.GuardPort
}

// Module implements the run ledger module
type Module struct {
	deps   modkit.Deps
	ledger *service.Ledger
	ports  Ports
}

// New constructs the ledger and the run lease over deps.PG
// without postgres every ledger write is a no-op and runs are unguarded
func New(deps modkit.Deps) *Module {
	l := service.New(deps.PG, repo.NewPG())
	ttl := deps.Cfg.Prefix("CORE_RUNLOG_").MayDuration("LEASE_TTL", 30*time.Minute)
	var g domain.GuardPort
	if deps.PG != nil {
		g = guardrails.NewLease(deps.PG, ttl)
	}
	return &Module{deps: deps, ledger: l, ports: Ports{Ledger: l, Guard: g}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "runlog" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Ledger returns the ledger port
func (m *Module) Ledger() domain.LedgerPort { return m.ports.Ledger }

// Guard returns the cross-process run lease, nil without postgres
func (m *Module) Guard() domain.GuardPort { return m.ports.Guard }

// Service returns the concrete ledger so bootstrap can create its schema
func (m *Module) Service() *service.Ledger { return m.ledger }

// MountRoutes exposes GET /runs?limit=N
func (m *Module) MountRoutes(r phttp.Router) {
	httpkit.Get(r, "/runs", func(req *http.Request) (any, error) {
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		return m.ledger.Recent(req.Context(), limit)
	})
}
