// Package module wires meta endpoints into the API
package module

import (
	"time"

	"factsongs/internal/modkit"
	phttp "factsongs/internal/platform/net/http"
	metahttp "factsongs/internal/services/api/meta/http"
)

// Module implements modkit.Module
type Module struct {
	deps      modkit.Deps
	service   string
	startedAt time.Time
}

// New constructs the meta module
func New(deps modkit.Deps, service string) *Module {
	return &Module{deps: deps, service: service, startedAt: time.Now()}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	metahttp.Register(r, metahttp.Deps{
		ServiceName: m.service,
		StartedAt:   m.startedAt,
		PG:          m.deps.PG,
		CH:          m.deps.CH,
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return "meta" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }
