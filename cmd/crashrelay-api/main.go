// @title         Crashrelay API
// @version       1.0
// @description   Operator surface of the crash report relay

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crashrelay/internal/adapters/sink/sentrysink"
	"crashrelay/internal/core/version"
	"crashrelay/internal/modkit/module"
	"crashrelay/internal/modkit/repokit"
	"crashrelay/internal/platform/config"
	"crashrelay/internal/platform/logger"
	phttp "crashrelay/internal/platform/net/http"
	"crashrelay/internal/platform/net/http/bind"
	"crashrelay/internal/platform/net/middleware"
	"crashrelay/internal/platform/store"
	"crashrelay/internal/platform/telemetry"

	"crashrelay/internal/services/api"
	intakedom "crashrelay/internal/services/intake/domain"
	intakemod "crashrelay/internal/services/intake/module"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()
	build := version.Info("crashrelay-api")
	l.Info().Str("version", build.Version).Str("commit", build.Commit).Msg("starting")

	// startup configuration is validated before anything listens
	sinkOpts := sentrysink.OptionsFrom(root)
	if err := bind.Struct(sinkOpts); err != nil {
		l.Fatal().Err(err).Msg("invalid sentry configuration")
	}
	intakeCfg := intakedom.ConfigFrom(root)
	if err := bind.Struct(intakeCfg); err != nil {
		l.Fatal().Err(err).Msg("invalid intake configuration")
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.FromConf(root, build.Service, build.Version))
	if err != nil {
		l.Fatal().Err(err).Msg("telemetry setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			l.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}()
	metrics, err := telemetry.NewIntakeMetrics(nil)
	if err != nil {
		l.Fatal().Err(err).Msg("intake metrics")
	}

	// optional ledger backends; each is enabled by its DBURL
	st, err := store.Open(ctx, store.ConfigFrom(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	sink, err := sentrysink.New(sinkOpts, logger.Named("sentry"))
	if err != nil {
		l.Fatal().Err(err).Msg("sentry sink")
	}
	defer sink.Close()

	srv := phttp.NewServer(root.Prefix("CORE_"))
	api.Mount(srv.Router(), api.Options{
		Config: apiCfg,
		Store:  st,
		Logger: l,
		Intake: intakemod.Inputs{
			Config:           intakeCfg,
			Sink:             sink,
			Metrics:          metrics,
			StatementTimeout: root.Prefix("INTAKE_").MayDuration("LEDGER_STATEMENT_TIMEOUT", 0),
		},
		CORS: middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		},
		SlowRequest:    apiCfg.MayDuration("SLOW_REQUEST", 2*time.Second),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableTracing:  apiCfg.MayBool("TRACING", true),
	})

	intake, ok := module.PortsAs[intakemod.Ports](intakemod.Name)
	if !ok {
		l.Fatal().Str("module", intakemod.Name).Msg("intake ports not registered")
	}
	if err := intake.EnsureSchema(ctx); err != nil {
		l.Panic().Err(err).Msg("ledger schema")
	}

	l.Info().Str("addr", srv.Addr()).Int64("max_upload", intakeCfg.MaxUpload).Msg("listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
