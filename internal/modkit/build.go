package modkit

import (
	"net/http"

	"crashrelay/internal/modkit/httpkit"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register runs every registration added via WithRegister
	Register func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	regs := append(([]func(httpkit.Router))(nil), c.register...)
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
		Register: func(r httpkit.Router) {
			for _, fn := range regs {
				fn(r)
			}
		},
	}
}
