package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"factsongs/internal/platform/config"
	perr "factsongs/internal/platform/errors"
	pnet "factsongs/internal/platform/net"
)

func TestServerRoutesAndEnvelope(t *testing.T) {
	t.Setenv("HTTPTEST_PORT", "4555")
	s := NewServer(config.New().Prefix("HTTPTEST_"))
	if s.Addr() != ":4555" {
		t.Fatalf("Addr = %q", s.Addr())
	}

	r := s.Router()
	r.Route("/v1", func(v Router) {
		v.Get("/ok", Handle(func(*stdhttp.Request) Response { return OK(map[string]int{"n": 1}) }))
		v.Post("/fail", Handle(func(*stdhttp.Request) Response { return Error(perr.Conflictf("busy")) }))
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v1/ok", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("GET /v1/ok = %d", rec.Code)
	}
	var env pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.StatusCode != 200 || env.Data == nil {
		t.Fatalf("envelope = %+v", env)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodPost, "/v1/fail", nil))
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("POST /v1/fail = %d", rec.Code)
	}
	env = pnet.Wire{}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Code != perr.ErrorCodeConflict || env.Error != "busy" {
		t.Fatalf("error envelope = %+v", env)
	}
}
