package net_test

import (
	"net/http"
	"testing"

	perr "crashrelay/internal/platform/errors"
	pnet "crashrelay/internal/platform/net"
)

func TestOK(t *testing.T) {
	status, w := pnet.OK(map[string]any{"x": 1}, "req-1")

	if status != http.StatusOK {
		t.Fatalf("status %d want %d", status, http.StatusOK)
	}
	if w.StatusCode != http.StatusOK || w.Status != http.StatusText(http.StatusOK) {
		t.Fatalf("wire status mismatch: %+v", w)
	}
	if w.RequestID != "req-1" {
		t.Fatalf("req id %q", w.RequestID)
	}
	if got, ok := w.Data.(map[string]any)["x"]; !ok || got != 1 {
		t.Fatalf("data mismatch: %+v", w.Data)
	}
}

func TestReply_Status(t *testing.T) {
	status, w := pnet.Reply(http.StatusAccepted, nil, "")
	if status != http.StatusAccepted || w.Status != "Accepted" {
		t.Fatalf("got %d %+v", status, w)
	}
}

func TestError_NilFallsBackToOK(t *testing.T) {
	status, w := pnet.Error(nil, "req-4")

	if status != http.StatusOK {
		t.Fatalf("status %d want %d", status, http.StatusOK)
	}
	if w.Error != "" || w.Code != 0 {
		t.Fatalf("expected no error/code, got error=%q code=%d", w.Error, w.Code)
	}
}

func TestError_MissingFieldCarriesPath(t *testing.T) {
	status, w := pnet.Error(perr.MissingField("sentry.release"), "req-5")

	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status %d want 422", status)
	}
	if w.Code != perr.ErrorCodeMissingField {
		t.Fatalf("code %v", w.Code)
	}
	if w.Field != "sentry.release" {
		t.Fatalf("field %q", w.Field)
	}
	if w.Error == "" || w.Data != nil {
		t.Fatalf("unexpected wire: %+v", w)
	}
}
