// Package module implements the extract service module
package module

import (
	"factsongs/internal/adapters/snapshot"
	"factsongs/internal/adapters/spotify"
	"factsongs/internal/adapters/users"
	"factsongs/internal/core/version"
	"factsongs/internal/modkit"
	phttp "factsongs/internal/platform/net/http"
	"factsongs/internal/services/extract/domain"
	"factsongs/internal/services/extract/service"
	rundomain "factsongs/internal/services/runlog/domain"
)

// Ports exposed by the extract module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the extract service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the extract module over already opened adapters
func New(deps modkit.Deps, snaps snapshot.Store, reg users.Registry, ledger rundomain.LedgerPort, guard rundomain.GuardPort) *Module {
	opts := FromConfig(deps.Cfg)

	client := spotify.NewClient(spotify.Options{
		BaseURL:      opts.BaseURL,
		TokenURL:     opts.TokenURL,
		UserAgent:    "factsongs-extract/" + version.Version(),
		Timeout:      opts.Timeout,
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
	})
	svc := service.New(client, client, reg, snaps, ledger, deps.Metrics, service.Config{
		Domain:   opts.Domain,
		PageSize: opts.PageSize,
		MaxPages: opts.MaxPages,
	})
	svc.Guard = guard

	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "extract" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Runner returns the run port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// MountRoutes satisfies modkit.Module; runs are triggered through the trigger module
func (m *Module) MountRoutes(phttp.Router) {}
