// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "crashrelay/internal/modkit"
	"crashrelay/internal/modkit/httpkit"

	metahttp "crashrelay/internal/services/api/meta/http"
)

// ServiceName is reported by health, service and version
const ServiceName = "crashrelay-api"

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{startedAt: time.Now()}

	// store seams are interfaces; only hand non nil ones to the checks
	var pg, ch any
	if deps.PG != nil {
		pg = deps.PG
	}
	if deps.CH != nil {
		ch = deps.CH
	}

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
		modkit.WithRegister(func(r httpkit.Router) {
			metahttp.Register(r, metahttp.Deps{
				ServiceName: ServiceName,
				StartedAt:   m.startedAt,
				PG:          pg,
				CH:          ch,
			})
		}),
	}, opts...)...)
	m.Base = modkit.NewBase(b)
	return m
}
