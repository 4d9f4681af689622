package sentrysink

import (
	"github.com/getsentry/sentry-go"

	"crashrelay/internal/core/event"
)

// ToSentry maps the canonical event onto the sentry-go event shape
func ToSentry(ev event.ErrorEvent) *sentry.Event {
	se := sentry.NewEvent()
	se.Level = sentry.Level(ev.Level)
	se.Release = ev.Release
	se.Timestamp = ev.Timestamp
	se.Platform = ev.Platform
	se.Sdk = sentry.SdkInfo{Name: ev.SDK.Name, Version: ev.SDK.Version}

	for name, block := range ev.Contexts.Map() {
		se.Contexts[name] = sentry.Context(block)
	}
	for k, v := range ev.Extra {
		se.Extra[k] = v
	}
	se.User = sentry.User{ID: ev.User.ID, Username: ev.User.Username}

	for _, e := range ev.Exception {
		se.Exception = append(se.Exception, toException(e))
	}
	for _, b := range ev.Breadcrumbs {
		se.Breadcrumbs = append(se.Breadcrumbs, &sentry.Breadcrumb{
			Category:  b.Category,
			Level:     sentry.Level(b.Level),
			Message:   b.Message,
			Timestamp: b.Timestamp,
		})
	}
	return se
}

func toException(e event.ExceptionInfo) sentry.Exception {
	out := sentry.Exception{Type: e.Type, Value: e.Value, Module: e.Module}
	if e.Stacktrace == nil {
		return out
	}
	frames := make([]sentry.Frame, 0, len(e.Stacktrace.Frames))
	for _, f := range e.Stacktrace.Frames {
		frames = append(frames, sentry.Frame{
			Function:    f.Function,
			Lineno:      f.Line,
			ContextLine: f.ContextLine,
			InApp:       f.InApp,
		})
	}
	out.Stacktrace = &sentry.Stacktrace{Frames: frames}
	return out
}
