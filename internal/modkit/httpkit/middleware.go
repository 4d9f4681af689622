package httpkit

import (
	"net/http"
	"time"

	"crashrelay/internal/platform/net/middleware"
)

// EdgeStack is applied once at the root router, ahead of every route
// client upload routes get nothing beyond this
func EdgeStack(slow time.Duration) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RealIP(),
		middleware.RequestID(),

		// observability, then safety so panics are still logged with the id
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: slow}),
		middleware.RecoverJSON,
	}
}

// CommonStack is the per scope slice for the operator api under /api/v1
func CommonStack(cors middleware.CORSOptions) []func(http.Handler) http.Handler {
	return append([]func(http.Handler) http.Handler{
		middleware.CORS(cors),
		middleware.Heartbeat("/health"),
	}, middleware.Defaults()...)
}

// BodyLimit caps the request body at n bytes; reads past it fail with *http.MaxBytesError
func BodyLimit(n int64) func(http.Handler) http.Handler { return middleware.RequestSize(n) }
