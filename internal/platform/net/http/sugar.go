package http

import "net/http"

// GetJSON mounts an enveloped JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandler(h))
}

// PostJSON mounts an enveloped JSON handler for POST; the handler reads the body itself
func PostJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, JSONHandler(h))
}
