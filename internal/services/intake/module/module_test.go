package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"crashrelay/internal/core/event"
	modkit "crashrelay/internal/modkit"
	"crashrelay/internal/modkit/repokit"
	phttp "crashrelay/internal/platform/net/http"
	kit "crashrelay/internal/platform/testkit"
	"crashrelay/internal/services/intake/domain"
)

type nopSink struct{}

func (nopSink) Capture(context.Context, event.ErrorEvent, []event.Attachment) (string, error) {
	return "evt", nil
}
func (nopSink) CaptureFeedback(context.Context, event.UserFeedback) error { return nil }
func (nopSink) Flush(context.Context) error                               { return nil }

type nopTx struct{ repokit.Queryer }

func (nopTx) Tx(context.Context, func(repokit.Queryer) error) error { return nil }

func inputs() modkit.Option {
	return modkit.WithPorts(Inputs{Config: domain.Config{MaxUpload: 1 << 20}, Sink: nopSink{}})
}

func TestNew_RequiresInputs(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{}) })
	kit.MustPanic(t, func() { New(modkit.Deps{}, modkit.WithPorts(Inputs{})) })
}

func TestNew_WithoutPostgresHasNoLedger(t *testing.T) {
	m := New(modkit.Deps{}, inputs())

	if m.Name() != "intake" || m.Prefix() != "/intake" {
		t.Fatalf("name=%q prefix=%q", m.Name(), m.Prefix())
	}
	p, ok := m.Ports().(Ports)
	if !ok || p.Service == nil {
		t.Fatalf("expected service port, got %#v", m.Ports())
	}
	if p.Ledger != nil {
		t.Fatalf("ledger must be nil without postgres")
	}
	if err := m.Ports().(Ports).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema without ledger: %v", err)
	}
}

func TestNew_WithPostgresBuildsLedger(t *testing.T) {
	m := New(modkit.Deps{PG: nopTx{}}, inputs())
	if p := m.Ports().(Ports); p.Ledger == nil {
		t.Fatalf("expected a ledger when postgres is configured")
	}
}

func TestMountRoutesAndClient(t *testing.T) {
	m := New(modkit.Deps{}, inputs())

	r := phttp.AdaptChi(chi.NewRouter())
	m.MountClient(r)
	r.Route("/api/v1", func(api phttp.Router) { m.MountRoutes(api) })

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodPost, "/api/getInfo", http.StatusOK},
		{http.MethodGet, "/api/v1/intake/recent", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}
