// Package module implements the trigger API module
package module

import (
	"factsongs/internal/modkit"
	"factsongs/internal/modkit/httpkit"
	phttp "factsongs/internal/platform/net/http"
	"factsongs/internal/platform/net/middleware"
	edomain "factsongs/internal/services/extract/domain"
	tdomain "factsongs/internal/services/transform/domain"
	"factsongs/internal/services/trigger/domain"
	thttp "factsongs/internal/services/trigger/http"
	"factsongs/internal/services/trigger/service"
)

// Ports exposed by the trigger module
type Ports struct {
	Trigger domain.TriggerPort
}

// Module implements the trigger API module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the trigger module over the two run ports; either may be nil
func New(deps modkit.Deps, extract edomain.RunnerPort, transform tdomain.RunnerPort) *Module {
	return &Module{
		deps:  deps,
		opts:  FromConfig(deps.Cfg),
		ports: Ports{Trigger: service.New(extract, transform)},
	}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "trigger" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes mounts the run routes, behind a bearer token when one is configured
func (m *Module) MountRoutes(r phttp.Router) {
	r.Group(func(g phttp.Router) {
		if m.opts.Token != "" {
			g.Use(httpkit.Auth(middleware.StaticBearer{Token: m.opts.Token, Caller: "trigger"}))
		}
		thttp.Register(g, m.ports.Trigger)
	})
}
