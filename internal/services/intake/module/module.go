// Package module wires the intake workflow into the API
package module

import (
	"context"
	"time"

	modkit "crashrelay/internal/modkit"
	"crashrelay/internal/modkit/httpkit"
	"crashrelay/internal/platform/telemetry"
	"crashrelay/internal/services/intake/domain"
	intakehttp "crashrelay/internal/services/intake/http"
	"crashrelay/internal/services/intake/repo"
	"crashrelay/internal/services/intake/service"
)

// Inputs are the collaborators intake needs beyond modkit.Deps, passed via modkit.WithPorts
type Inputs struct {
	Config  domain.Config
	Sink    domain.Sink
	Metrics *telemetry.IntakeMetrics

	// StatementTimeout bounds ledger writes; zero keeps the ledger default
	StatementTimeout time.Duration
}

// Name is the module name ports are registered under
const Name = "intake"

// Ports is what intake exposes to the rest of the process
type Ports struct {
	Service domain.ServicePort

	// Ledger is nil when postgres is not configured
	Ledger *service.Ledger
}

// EnsureSchema prepares the ledger tables; a no-op without postgres
func (p Ports) EnsureSchema(ctx context.Context) error {
	if p.Ledger == nil {
		return nil
	}
	return p.Ledger.EnsureSchema(ctx)
}

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base

	ports  Ports
	client intakehttp.Deps
}

// New constructs the intake module; Inputs with a Sink are required
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	pre := modkit.Build(opts...)
	in, ok := pre.Ports.(Inputs)
	if !ok || in.Sink == nil {
		panic("intake module requires modkit.WithPorts(Inputs{Sink: ...})")
	}

	svcOpts := []service.Option{service.WithMetrics(in.Metrics)}

	var ledger *service.Ledger
	if deps.PG != nil {
		lopts := []service.LedgerOption{service.WithMirror(repo.NewCH(deps.CH))}
		if in.StatementTimeout > 0 {
			lopts = append(lopts, service.WithStatementTimeout(in.StatementTimeout))
		}
		ledger = service.NewLedger(deps.PG, repo.NewPG(), lopts...)
		svcOpts = append(svcOpts, service.WithLedger(ledger))
	}

	svc := service.New(in.Config, in.Sink, svcOpts...)
	hd := intakehttp.Deps{Svc: svc, MaxUpload: in.Config.MaxUpload}

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(Name),
		modkit.WithPrefix("/intake"),
		modkit.WithRegister(func(r httpkit.Router) { intakehttp.Register(r, hd) }),
	}, opts...)...)

	return &Module{
		Base:   modkit.NewBase(b),
		ports:  Ports{Service: svc, Ledger: ledger},
		client: hd,
	}
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }

// MountClient mounts the fixed client routes on the root router
func (m *Module) MountClient(r httpkit.Router) { intakehttp.RegisterClient(r, m.client) }
