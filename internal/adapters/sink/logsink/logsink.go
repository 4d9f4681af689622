// Package logsink is a dry-run sink that writes composed events to the log instead of a backend
package logsink

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crashrelay/internal/core/event"
	"crashrelay/internal/platform/logger"
)

// Sink logs each call; with Keep it also holds the most recent records for inspection
type Sink struct {
	log  *logger.Logger
	keep int

	mu       sync.Mutex
	events   []event.ErrorEvent
	feedback []event.UserFeedback
}

// Option configures a Sink
type Option func(*Sink)

// Keep retains the last n events and feedback records; the default keeps none
func Keep(n int) Option { return func(s *Sink) { s.keep = max(n, 0) } }

// New returns a dry-run sink writing to log
func New(log *logger.Logger, opts ...Option) *Sink {
	s := &Sink{log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// retain appends v and trims to the last n entries
func retain[T any](xs []T, v T, n int) []T {
	if n <= 0 {
		return nil
	}
	xs = append(xs, v)
	if over := len(xs) - n; over > 0 {
		xs = append(xs[:0:0], xs[over:]...)
	}
	return xs
}

// Capture logs the event as JSON and returns a fresh id
func (s *Sink) Capture(ctx context.Context, ev event.ErrorEvent, atts []event.Attachment) (string, error) {
	id := uuid.New()
	raw, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.events = retain(s.events, ev, s.keep)
	s.mu.Unlock()

	names := make([]string, 0, len(atts))
	for _, a := range atts {
		names = append(names, a.Name)
	}
	s.log.Info().
		Str("event_id", hexID(id)).
		Strs("attachments", names).
		RawJSON("event", raw).
		Msg("dry-run capture")
	return hexID(id), nil
}

// CaptureFeedback logs the feedback record
func (s *Sink) CaptureFeedback(_ context.Context, fb event.UserFeedback) error {
	s.mu.Lock()
	s.feedback = retain(s.feedback, fb, s.keep)
	s.mu.Unlock()

	s.log.Info().
		Str("event_id", fb.EventID).
		Str("name", fb.Name).
		Str("comments", fb.Comments).
		Msg("dry-run feedback")
	return nil
}

// Flush has nothing to wait for
func (s *Sink) Flush(context.Context) error {
	s.log.WithLevel(zerolog.DebugLevel).Msg("dry-run flush")
	return nil
}

// Events returns a copy of the retained events
func (s *Sink) Events() []event.ErrorEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.ErrorEvent(nil), s.events...)
}

// Feedback returns a copy of the retained feedback records
func (s *Sink) Feedback() []event.UserFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.UserFeedback(nil), s.feedback...)
}

// hexID renders ids the way sentry does: 32 hex chars without dashes
func hexID(id uuid.UUID) string { return strings.ReplaceAll(id.String(), "-", "") }
