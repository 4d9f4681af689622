// Package api composes the HTTP surface of the relay
package api

import (
	"net/http"
	"time"

	"crashrelay/internal/platform/config"
	"crashrelay/internal/platform/logger"
	phttp "crashrelay/internal/platform/net/http"
	"crashrelay/internal/platform/net/middleware"
	"crashrelay/internal/platform/store"
	"crashrelay/internal/platform/telemetry"

	"crashrelay/internal/modkit"
	"crashrelay/internal/modkit/httpkit"
	"crashrelay/internal/modkit/module"
	"crashrelay/internal/modkit/swaggerkit"

	metamod "crashrelay/internal/services/api/meta/module"
	intakemod "crashrelay/internal/services/intake/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Intake         intakemod.Inputs
	CORS           middleware.CORSOptions
	SlowRequest    time.Duration
	EnableSwagger  bool
	EnableProfiler bool
	EnableTracing  bool
}

// Mount mounts the API service onto the given router; module ports are
// published to the module registry as each module is mounted
func Mount(r phttp.Router, opt Options) {
	deps := modkit.DepsFrom(opt.Config, opt.Logger, opt.Store)

	edge := httpkit.EdgeStack(opt.SlowRequest)
	if opt.EnableTracing {
		edge = append([]func(http.Handler) http.Handler{telemetry.Middleware("crashrelay")}, edge...)
	}
	r.Use(edge...)

	intake := intakemod.New(deps, modkit.WithPorts(opt.Intake))
	mods := []module.Module{
		metamod.New(deps),
		intake,
	}

	// report clients post to fixed root paths
	intake.MountClient(r)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.CORS), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
}
