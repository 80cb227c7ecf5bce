package httpkit

import (
	"net/http"

	phttp "factsongs/internal/platform/net/http"
	"factsongs/internal/platform/net/http/bind"
)

// bodyOpts accepts a missing body so every field of T may default
var bodyOpts = bind.JSONOptions{MaxBytes: 64 << 10, DisallowUnknown: true, AllowEmptyBody: true}

// JSON adapts a handler taking a decoded and validated T
func JSON[T any](fn func(*http.Request, T) (any, error)) phttp.Handler {
	return Call(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r, bodyOpts)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// Call adapts a handler that takes no body to the envelope writer
func Call(fn func(*http.Request) (any, error)) phttp.Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// PostJSON mounts a JSON body handler under POST
func PostJSON[T any](r phttp.Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(h))
}

// Get mounts a body-less handler under GET
func Get(r phttp.Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}
