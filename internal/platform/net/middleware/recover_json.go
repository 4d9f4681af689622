package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "crashrelay/internal/platform/errors"
	"crashrelay/internal/platform/logger"
	pnet "crashrelay/internal/platform/net"
	phttp "crashrelay/internal/platform/net/http"
)

// RecoverJSON converts panics into a JSON 500 envelope and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			// let net/http abort the connection as it would without us
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())

			logger.C(r.Context()).Error().
				Str("request_id", reqID).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, body := pnet.Error(perr.PanicErrf("panic recovered"), reqID)
			phttp.JSON(w, status, body)
		}()
		next.ServeHTTP(w, r)
	})
}
