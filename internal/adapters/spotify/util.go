package spotify

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	perr "factsongs/internal/platform/errors"
)

// StatusError wraps a non-2xx response
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

// Error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("spotify %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// statusError reads a small tail of the body for diagnostics and returns an upstream error
func statusError(method, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	se := &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(body)}
	return perr.Wrap(se, perr.ErrorCodeUpstream, se.Error())
}

// Status returns the HTTP status carried by err, or 0
func Status(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
