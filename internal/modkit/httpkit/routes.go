package httpkit

import (
	"net/http"

	phttp "factsongs/internal/platform/net/http"
)

// MountUnder mounts a subrouter at prefix and applies per-module middlewares
func MountUnder(r phttp.Router, prefix string, mw []func(http.Handler) http.Handler, mount func(phttp.Router)) {
	r.Route(prefix, func(sub phttp.Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
