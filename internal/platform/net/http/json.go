package http

import "net/http"

// JSONHandler calls fn and wraps the result in the envelope
func JSONHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
