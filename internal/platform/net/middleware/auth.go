package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "factsongs/internal/platform/errors"
	pnet "factsongs/internal/platform/net"
)

// AuthPort resolves the caller of a request or rejects it
type AuthPort interface {
	Parse(r *http.Request) (caller string, err error)
}

// Auth rejects requests the port refuses and stores the caller on context
// a nil port lets every request through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithCaller(r.Context(), caller)))
		})
	}
}

// StaticBearer accepts a single shared token in the Authorization header
type StaticBearer struct {
	Token  string
	Caller string
}

// Parse implements AuthPort
func (s StaticBearer) Parse(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	got, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || got == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(s.Token)) != 1 {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	if s.Caller == "" {
		return "trigger", nil
	}
	return s.Caller, nil
}
