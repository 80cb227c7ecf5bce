// Package api mounts the trigger HTTP surface: run triggers, the run ledger,
// build info, readiness and prometheus metrics
package api

import (
	"factsongs/internal/modkit"
	"factsongs/internal/modkit/httpkit"
	"factsongs/internal/modkit/module"
	"factsongs/internal/platform/config"
	"factsongs/internal/platform/metrics"
	phttp "factsongs/internal/platform/net/http"
	metamod "factsongs/internal/services/api/meta/module"
	edomain "factsongs/internal/services/extract/domain"
	"factsongs/internal/services/pipeline"
	tdomain "factsongs/internal/services/transform/domain"
	triggermod "factsongs/internal/services/trigger/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_API_ view
	Config   config.Conf
	Pipeline *pipeline.Pipeline
}

// Mount mounts the API onto r
func Mount(r phttp.Router, opt Options) {
	p := opt.Pipeline
	deps := p.Deps

	var (
		extract   edomain.RunnerPort
		transform tdomain.RunnerPort
	)
	if p.Extract != nil {
		extract = module.MustPortsOf[edomain.RunnerPort](p.Extract)
	}
	if p.Transform != nil {
		transform = module.MustPortsOf[tdomain.RunnerPort](p.Transform)
	}

	mods := []modkit.Module{
		metamod.New(deps, "factsongs-api"),
		p.Runlog,
		triggermod.New(deps, extract, transform),
	}

	r.Use(httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		Slow:        opt.Config.MayDuration("SLOW", 0),
	})...)
	r.Handle("/metrics", metrics.Handler())

	httpkit.MountUnder(r, "/v1", nil, func(v1 phttp.Router) {
		for _, m := range mods {
			deps.Log.Debug().Str("module", m.Name()).Msg("api: mounting")
			m.MountRoutes(v1)
		}
	})
}
