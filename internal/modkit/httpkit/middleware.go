// Package httpkit holds the shared router stack modules mount under
package httpkit

import (
	"net/http"
	"time"

	phttp "factsongs/internal/platform/net/http"
	"factsongs/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	Slow        time.Duration
	HealthPath  string
}

// CommonStack returns the baseline middleware for the api router
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	health := o.HealthPath
	if health == "" {
		health = "/health"
	}
	mw := middleware.Defaults(o.Slow)
	return append(mw,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Heartbeat(health),
	)
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
