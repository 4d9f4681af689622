// Package service runs the crash report intake workflow
package service

import (
	"context"
	"io"
	"time"

	"crashrelay/internal/adapters/bundle"
	"crashrelay/internal/core/compose"
	"crashrelay/internal/core/event"
	perr "crashrelay/internal/platform/errors"
	"crashrelay/internal/platform/logger"
	pnet "crashrelay/internal/platform/net"
	"crashrelay/internal/platform/telemetry"
	"crashrelay/internal/services/intake/domain"
)

// Service defines the service contract for intake
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	cfg     domain.Config
	sink    domain.Sink
	ledger  domain.Ledger
	metrics *telemetry.IntakeMetrics
	now     func() time.Time
}

// Option configures optional collaborators
type Option func(*Svc)

// WithLedger records a receipt for every upload
func WithLedger(l domain.Ledger) Option { return func(s *Svc) { s.ledger = l } }

// WithMetrics counts uploads, failures and attachments
func WithMetrics(m *telemetry.IntakeMetrics) Option { return func(s *Svc) { s.metrics = m } }

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// New creates the intake service
func New(cfg domain.Config, sink domain.Sink, opts ...Option) *Svc {
	if sink == nil {
		panic("intake.Service requires a non nil Sink")
	}
	s := &Svc{cfg: cfg, sink: sink, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Directive answers the client getInfo probe
func (s *Svc) Directive() domain.Directive { return s.cfg.Directive() }

// Recent lists the latest receipts
func (s *Svc) Recent(ctx context.Context, in domain.RecentInput) ([]domain.Receipt, error) {
	if s.ledger == nil {
		return nil, errLedgerDisabled
	}
	return s.ledger.Recent(ctx, in.Limit)
}

// Push unpacks one uploaded bundle and forwards its event to the sink
// the workspace is removed on every return path
func (s *Svc) Push(ctx context.Context, archive io.Reader) (domain.PushResult, error) {
	start := s.now()
	s.metrics.Received(ctx)

	rc := domain.Receipt{RequestID: pnet.RequestID(ctx), ReceivedAt: start.UTC()}

	ws, err := bundle.Open(s.cfg.WorkDir)
	if err != nil {
		s.finish(ctx, &rc, start, err)
		return domain.PushResult{}, err
	}
	ctx = logger.WithRequest(ctx, rc.RequestID, ws.ID)
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			logger.C(ctx).Warn().Err(cerr).Str("dir", ws.Root()).Msg("workspace cleanup failed")
		}
	}()

	res, err := s.process(ctx, ws, archive, &rc)
	s.finish(ctx, &rc, start, err)
	if err != nil {
		return domain.PushResult{}, err
	}
	return res, nil
}

func (s *Svc) process(ctx context.Context, ws *bundle.Workspace, archive io.Reader, rc *domain.Receipt) (domain.PushResult, error) {
	if err := ws.Extract(archive); err != nil {
		return domain.PushResult{}, err
	}
	rep, err := ws.ReadReport()
	if err != nil {
		return domain.PushResult{}, err
	}
	ev, err := compose.Compose(rep)
	if err != nil {
		return domain.PushResult{}, err
	}
	rc.Release = ev.Release
	rc.OSName = ev.Contexts.OS.Name
	rc.ExceptionType = ev.PrimaryException().Type

	atts, err := ws.Attachments()
	if err != nil {
		return domain.PushResult{}, err
	}

	id, err := s.sink.Capture(ctx, ev, atts)
	if err != nil {
		return domain.PushResult{}, err
	}
	ctx = logger.WithEvent(ctx, id)
	rc.EventID = id
	rc.Attachments = len(atts)
	s.metrics.Attachments(ctx, len(atts))

	res := domain.PushResult{EventID: id, Attachments: names(atts)}

	var fbErr error
	if fb, ok := compose.Feedback(rep, id, ev.User.Username); ok {
		if fbErr = s.sink.CaptureFeedback(ctx, fb); fbErr == nil {
			rc.Feedback = true
			res.Feedback = true
		}
	}

	// flush even when feedback failed so the event itself is delivered
	if err := s.sink.Flush(ctx); err != nil {
		return domain.PushResult{}, err
	}
	if fbErr != nil {
		return domain.PushResult{}, fbErr
	}

	logger.C(ctx).Info().
		Str("release", ev.Release).
		Str("exception", rc.ExceptionType).
		Int("attachments", len(atts)).
		Bool("feedback", res.Feedback).
		Msg("report forwarded")
	return res, nil
}

// finish fills the outcome, updates metrics and writes the receipt
// ledger failures are logged and never change the upload result
func (s *Svc) finish(ctx context.Context, rc *domain.Receipt, start time.Time, err error) {
	rc.Elapsed = s.now().Sub(start)
	rc.Outcome = outcome(err)
	if err != nil {
		rc.ErrorCode = perr.CodeOf(err).String()
		s.metrics.Failed(ctx, rc.ErrorCode)

		evt := logger.C(ctx).Warn()
		if perr.HTTPStatus(err) >= 500 {
			evt = logger.C(ctx).Error()
		}
		evt.Err(err).Str("code", rc.ErrorCode).Str("field", perr.FieldOf(err)).Msg("report not forwarded")
	}
	s.metrics.Observe(ctx, rc.Elapsed, rc.Outcome)

	if s.ledger == nil {
		return
	}
	if lerr := s.ledger.Record(context.WithoutCancel(ctx), *rc); lerr != nil {
		logger.C(ctx).Warn().Err(lerr).Msg("receipt not recorded")
	}
}

// outcome classifies err for the receipt
func outcome(err error) string {
	switch {
	case err == nil:
		return domain.OutcomeSent
	case perr.HTTPStatus(err) < 500:
		return domain.OutcomeRejected
	default:
		return domain.OutcomeFailed
	}
}

func names(atts []event.Attachment) []string {
	out := make([]string, 0, len(atts))
	for _, a := range atts {
		out = append(out, a.Name)
	}
	return out
}
