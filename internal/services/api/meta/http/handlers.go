// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"factsongs/internal/core/version"
	"factsongs/internal/modkit/httpkit"
	phttp "factsongs/internal/platform/net/http"
)

// Pinger is satisfied by store seams that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r phttp.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/ready", h.ready)
}

// VersionResponse is build info plus uptime
type VersionResponse struct {
	version.BuildInfo
	Started string `json:"started"`
	Uptime  int64  `json:"uptime_seconds"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return VersionResponse{
		BuildInfo: version.Info(h.deps.ServiceName),
		Started:   h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:    int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		p, ok := c.(Pinger)
		if !ok {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if err := p.Ping(ctx); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}

	out := ReadyResponse{Status: "ok", Checks: []ReadyCheck{check("pg", h.deps.PG), check("ch", h.deps.CH)}}
	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return phttp.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}
