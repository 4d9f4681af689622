package net_test

import (
	"context"
	"testing"

	pnet "crashrelay/internal/platform/net"
)

func TestWithRequestID(t *testing.T) {
	base := context.Background()

	t.Run("sets id", func(t *testing.T) {
		ctx := pnet.WithRequestID(base, "req-123")
		if got := pnet.RequestID(ctx); got != "req-123" {
			t.Fatalf("RequestID got %q want %q", got, "req-123")
		}
	})

	t.Run("empty id returns same ctx", func(t *testing.T) {
		ctx := pnet.WithRequestID(base, "")
		if ctx != base {
			t.Fatalf("expected ctx to be unchanged")
		}
		if got := pnet.RequestID(ctx); got != "" {
			t.Fatalf("RequestID got %q want empty", got)
		}
	})
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := pnet.EnsureRequestID(context.Background())
	if len(id) != 32 {
		t.Fatalf("minted id %q, want 32 hex chars", id)
	}
	if pnet.RequestID(ctx) != id {
		t.Fatalf("id not stored on ctx")
	}

	ctx2, id2 := pnet.EnsureRequestID(ctx)
	if id2 != id || ctx2 != ctx {
		t.Fatalf("existing id should be kept, got %q", id2)
	}
}
