// Package net provides utilities for working with request contexts
package net

import (
	"context"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// WithRequestID stores reqID where chi's RequestID middleware would
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// EnsureRequestID returns ctx with a request id, minting one when none is set
// used by callers that run outside the http stack, such as bundle replay
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestID(ctx); id != "" {
		return ctx, id
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return WithRequestID(ctx, id), id
}
