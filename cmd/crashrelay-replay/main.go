package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"crashrelay/internal/adapters/sink/logsink"
	"crashrelay/internal/adapters/sink/sentrysink"
	"crashrelay/internal/core/version"
	"crashrelay/internal/platform/config"
	perr "crashrelay/internal/platform/errors"
	"crashrelay/internal/platform/logger"
	pnet "crashrelay/internal/platform/net"
	"crashrelay/internal/platform/net/http/bind"

	intakedom "crashrelay/internal/services/intake/domain"
	intakesvc "crashrelay/internal/services/intake/service"
)

// closer is satisfied by sinks that flush on shutdown
type closer interface{ Close() }

// replayOptions are the parsed command line flags
type replayOptions struct {
	Bundle string
	DryRun bool
}

func main() {
	var (
		bundlePath = flag.String("bundle", "", "path to a zipped crash bundle")
		dryRun     = flag.Bool("dry-run", false, "log the composed event instead of sending it")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(version.Info("crashrelay-replay"))
		return
	}

	l := logger.Get()
	if *bundlePath == "" {
		l.Fatal().Msg("-bundle is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, config.New(), replayOptions{Bundle: *bundlePath, DryRun: *dryRun}, os.Stdout)
	stop()
	os.Exit(code)
}

// run replays one bundle and returns the process exit code; every deferred close
// has completed by the time it returns
func run(ctx context.Context, root config.Conf, opt replayOptions, out io.Writer) int {
	l := logger.Get()

	cfg := intakedom.ConfigFrom(root)
	if err := bind.Struct(cfg); err != nil {
		l.Error().Err(err).Msg("invalid intake configuration")
		return 2
	}

	sink, err := newSink(root, opt.DryRun)
	if err != nil {
		l.Error().Err(err).Msg("sink")
		return 2
	}
	if c, ok := sink.(closer); ok {
		defer c.Close()
	}

	f, err := os.Open(opt.Bundle)
	if err != nil {
		l.Error().Err(err).Str("bundle", opt.Bundle).Msg("open bundle")
		return 1
	}
	defer f.Close()

	ctx, reqID := pnet.EnsureRequestID(ctx)
	code, err := replay(ctx, intakesvc.New(cfg, sink), f, out)
	if err != nil {
		l.Error().Err(err).
			Str("request_id", reqID).
			Str("code", perr.CodeOf(err).String()).
			Str("field", perr.FieldOf(err)).
			Msg("replay failed")
	}
	return code
}

// newSink picks the dry run log sink or the real backend
func newSink(root config.Conf, dryRun bool) (intakedom.Sink, error) {
	if dryRun {
		return logsink.New(logger.Named("dry-run")), nil
	}
	opts := sentrysink.OptionsFrom(root)
	if err := bind.Struct(opts); err != nil {
		return nil, err
	}
	return sentrysink.New(opts, logger.Named("sentry"))
}

// replay pushes one bundle and prints the result; the exit code mirrors the HTTP status class
func replay(ctx context.Context, svc intakedom.ServicePort, bundle io.Reader, out io.Writer) (int, error) {
	res, err := svc.Push(ctx, bundle)
	if err != nil {
		if pnet.HTTPStatus(err) >= 500 {
			return 2, err
		}
		return 1, err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return 2, err
	}
	return 0, nil
}
