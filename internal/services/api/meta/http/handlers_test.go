package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "crashrelay/internal/platform/net/http"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, d Deps, path string, out any) int {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", path, err)
	}
	return rec.Code
}

func fixedDeps() Deps {
	start := time.Date(2025, 9, 3, 13, 0, 0, 0, time.UTC)
	return Deps{
		ServiceName: "crashrelay-api",
		StartedAt:   start,
		Now:         func() time.Time { return start.Add(5 * time.Minute) },
	}
}

func TestHealthAndService(t *testing.T) {
	d := fixedDeps()

	var h HealthResponse
	if code := serve(t, d, "/health", &h); code != http.StatusOK {
		t.Fatalf("health status %d", code)
	}
	if !h.OK || h.Service != "crashrelay-api" || h.Now != "2025-09-03T13:05:00Z" {
		t.Fatalf("unexpected health %+v", h)
	}

	var s ServiceResponse
	serve(t, d, "/service", &s)
	if s.Uptime != 300 || s.Started != "2025-09-03T13:00:00Z" {
		t.Fatalf("unexpected service %+v", s)
	}
}

func TestVersion(t *testing.T) {
	var v struct {
		Service string `json:"service"`
		Version string `json:"version"`
	}
	serve(t, fixedDeps(), "/version", &v)
	if v.Service != "crashrelay-api" || v.Version == "" {
		t.Fatalf("unexpected version %+v", v)
	}
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		pg, ch any
		want   string
	}{
		{name: "nothing configured", want: "ok"},
		{name: "all healthy", pg: pinger{}, ch: pinger{}, want: "ok"},
		{name: "pg down", pg: pinger{err: errors.New("refused")}, ch: pinger{}, want: "fail"},
		{name: "unknown seam", pg: struct{}{}, want: "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := fixedDeps()
			d.PG, d.CH = tc.pg, tc.ch

			var got ReadyResponse
			serve(t, d, "/ready", &got)
			if got.Status != tc.want || len(got.Checks) != 2 {
				t.Fatalf("ready = %+v, want status %s", got, tc.want)
			}
		})
	}
}
