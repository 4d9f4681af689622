package sentrysink

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"crashrelay/internal/core/event"
	perr "crashrelay/internal/platform/errors"
	"crashrelay/internal/platform/logger"
)

const envelopeContentType = "application/x-sentry-envelope"

type envelopeHeader struct {
	EventID string `json:"event_id"`
}

type itemHeader struct {
	Type   string `json:"type"`
	Length int    `json:"length"`
}

// userReport is the payload of a user_report envelope item
type userReport struct {
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Comments string `json:"comments"`
}

// EncodeFeedback frames a user feedback record as a single item envelope
func EncodeFeedback(fb event.UserFeedback) ([]byte, error) {
	payload, err := json.Marshal(userReport(fb))
	if err != nil {
		return nil, errors.Wrap(err, "encode user report")
	}
	head, err := json.Marshal(envelopeHeader{EventID: fb.EventID})
	if err != nil {
		return nil, errors.Wrap(err, "encode envelope header")
	}
	item, err := json.Marshal(itemHeader{Type: "user_report", Length: len(payload)})
	if err != nil {
		return nil, errors.Wrap(err, "encode item header")
	}

	var buf bytes.Buffer
	buf.Grow(len(head) + len(item) + len(payload) + 3)
	buf.Write(head)
	buf.WriteByte('\n')
	buf.Write(item)
	buf.WriteByte('\n')
	buf.Write(payload)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// CaptureFeedback posts the feedback envelope to the DSN envelope endpoint
// The event queue is drained first so the backend sees the event before its report
func (s *Sink) CaptureFeedback(ctx context.Context, fb event.UserFeedback) error {
	if err := s.drain(ctx); err != nil {
		return err
	}

	body, err := EncodeFeedback(fb)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode feedback")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.dsn.GetAPIURL().String(), bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(errors.WithStack(err), perr.ErrorCodeUnknown, "build feedback request")
	}
	for k, v := range s.dsn.RequestHeaders() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", envelopeContentType)

	resp, err := s.http.Do(req)
	if err != nil {
		return perr.Wrap(errors.Wrap(err, "post user feedback"), perr.ErrorCodeUpstream, "send feedback")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode/100 != 2 {
		return perr.Upstreamf("feedback rejected with status %d", resp.StatusCode)
	}
	logger.C(ctx).Debug().Str("event_id", fb.EventID).Msg("user feedback sent")
	return nil
}
