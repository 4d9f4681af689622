package modkit

import (
	"crashrelay/internal/modkit/httpkit"
	phttp "crashrelay/internal/platform/net/http"
	str "crashrelay/internal/platform/strings"
)

// Module is the common surface for API modules that can mount routes and expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set interface for cross wiring
	Ports() any

	// Name returns the module name
	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module

// Base implements Module from a Built; modules embed it and override Ports as needed
type Base struct{ b Built }

// NewBase wraps b
func NewBase(b Built) Base { return Base{b: b} }

// Name returns the module name; an unnamed module is a wiring bug
func (m Base) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the normalized route prefix
func (m Base) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports returns the ports given via WithPorts
func (m Base) Ports() any { return m.b.Ports }

// MountRoutes mounts every registration under Prefix with the module middleware
func (m Base) MountRoutes(r phttp.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.b.Mw, m.b.Register)
}
