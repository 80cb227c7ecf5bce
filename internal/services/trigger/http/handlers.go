// Package http provides http transport for the trigger API
package http

import (
	stdhttp "net/http"

	"factsongs/internal/modkit/httpkit"
	phttp "factsongs/internal/platform/net/http"
	"factsongs/internal/services/trigger/domain"
)

// Register mounts the run routes
func Register(r phttp.Router, svc domain.TriggerPort) {
	h := &handlers{svc: svc}
	httpkit.PostJSON(r, "/runs/extract", h.extract)
	httpkit.PostJSON(r, "/runs/transform", h.transform)
}

type handlers struct{ svc domain.TriggerPort }

func (h *handlers) extract(r *stdhttp.Request, in domain.RunRequest) (any, error) {
	return h.svc.Extract(r.Context(), in.Date)
}

func (h *handlers) transform(r *stdhttp.Request, in domain.RunRequest) (any, error) {
	return h.svc.Transform(r.Context(), in.Date)
}
