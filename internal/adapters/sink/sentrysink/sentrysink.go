// Package sentrysink delivers composed crash events to a Sentry compatible backend
package sentrysink

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"

	"crashrelay/internal/core/event"
	perr "crashrelay/internal/platform/errors"
	"crashrelay/internal/platform/logger"
	pnet "crashrelay/internal/platform/net"
)

// Options configures the sink; it is validated before the service starts
type Options struct {
	DSN          string        `validate:"required,url"`
	Environment  string        `validate:"omitempty,max=64"`
	ServerName   string        `validate:"omitempty,max=128"`
	FlushTimeout time.Duration `validate:"gt=0"`
	Debug        bool

	// HTTPClient and Transport are overridable for tests
	HTTPClient *http.Client     `validate:"-"`
	Transport  sentry.Transport `validate:"-"`
}

// Sink owns one sentry client shared by all requests
type Sink struct {
	client       *sentry.Client
	dsn          *sentry.Dsn
	http         *http.Client
	delivered    *deliveries // nil when a custom Transport is configured
	flushTimeout time.Duration
	log          *logger.Logger
}

// identity travels in the event hint so BeforeSend can restore what the client overwrites
type identity struct {
	sdk      event.SDK
	platform string
}

// New builds the sink; default integrations are disabled
func New(opt Options, log *logger.Logger) (*Sink, error) {
	dsn, err := sentry.NewDsn(opt.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "parse sentry dsn")
	}
	hc := opt.HTTPClient
	if hc == nil {
		hc = cleanhttp.DefaultPooledClient()
	}

	// events go through a copy of hc that records backend answers; feedback uses hc directly
	eventClient := hc
	var delivered *deliveries
	if opt.Transport == nil {
		delivered = newDeliveries(hc.Transport)
		wrapped := *hc
		wrapped.Transport = delivered
		eventClient = &wrapped
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:          opt.DSN,
		Debug:        opt.Debug,
		Environment:  opt.Environment,
		ServerName:   opt.ServerName,
		HTTPClient:   eventClient,
		Transport:    opt.Transport,
		Integrations: func([]sentry.Integration) []sentry.Integration { return nil },
		BeforeSend:   restoreIdentity,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create sentry client")
	}

	timeout := opt.FlushTimeout
	if timeout <= 0 {
		timeout = DefaultFlushTimeout
	}
	return &Sink{client: client, dsn: dsn, http: hc, delivered: delivered, flushTimeout: timeout, log: log}, nil
}

// restoreIdentity puts back the sdk and platform the client stamps during preparation
func restoreIdentity(ev *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint == nil {
		return ev
	}
	if id, ok := hint.Data.(identity); ok {
		ev.Sdk = sentry.SdkInfo{Name: id.sdk.Name, Version: id.sdk.Version}
		ev.Platform = id.platform
	}
	return ev
}

// Capture submits the event with the given attachments and returns the backend event id
func (s *Sink) Capture(ctx context.Context, ev event.ErrorEvent, atts []event.Attachment) (string, error) {
	scope := sentry.NewScope()
	scope.SetLevel(sentry.LevelError)
	for _, a := range atts {
		att, err := readAttachment(a)
		if err != nil {
			return "", perr.Wrap(err, perr.ErrorCodeUnknown, "read attachment")
		}
		scope.AddAttachment(att)
	}

	hint := &sentry.EventHint{
		Context: ctx,
		Data:    identity{sdk: ev.SDK, platform: ev.Platform},
	}
	id := s.client.CaptureEvent(ToSentry(ev), hint, scope)
	if id == nil {
		return "", perr.Upstreamf("event was dropped by the sentry client")
	}
	if s.delivered != nil {
		s.delivered.watch(pnet.RequestID(ctx), string(*id))
	}

	logger.C(ctx).Debug().Str("event_id", string(*id)).Int("attachments", len(atts)).Msg("event queued")
	return string(*id), nil
}

// Flush blocks until queued events are sent or the flush timeout elapses, then
// fails if the backend rejected or never received an event captured under ctx's request
// A context deadline shorter than the configured timeout wins
func (s *Sink) Flush(ctx context.Context) error {
	err := s.drain(ctx)
	if s.delivered != nil {
		if derr := s.delivered.settle(pnet.RequestID(ctx)); err == nil {
			err = derr
		}
	}
	return err
}

// drain waits for the client queue to empty
func (s *Sink) drain(ctx context.Context) error {
	timeout := s.flushTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 || !s.client.Flush(timeout) {
		return perr.Upstreamf("sentry flush did not complete within %s", timeout)
	}
	return nil
}

// Close flushes what is left; used on shutdown
func (s *Sink) Close() {
	if !s.client.Flush(s.flushTimeout) {
		s.log.Warn().Dur("timeout", s.flushTimeout).Msg("sentry flush on close timed out")
	}
}

func readAttachment(a event.Attachment) (*sentry.Attachment, error) {
	b, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", a.Name)
	}
	return &sentry.Attachment{Filename: a.Name, ContentType: contentType(a.Name), Payload: b}, nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
