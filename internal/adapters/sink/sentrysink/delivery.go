package sentrysink

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	perr "crashrelay/internal/platform/errors"
)

// outcomes older than this are dropped; nobody flushed for them
const deliveryTTL = 10 * time.Minute

// deliveries sits under the sentry transport and remembers what the backend
// answered for each event envelope; the transport itself only logs rejections
type deliveries struct {
	next http.RoundTripper
	now  func() time.Time

	mu      sync.Mutex
	results map[string]delivery
	pending map[string][]string // request id -> event ids awaiting Flush
}

type delivery struct {
	err error
	at  time.Time
}

func newDeliveries(next http.RoundTripper) *deliveries {
	if next == nil {
		next = http.DefaultTransport
	}
	return &deliveries{
		next:    next,
		now:     time.Now,
		results: map[string]delivery{},
		pending: map[string][]string{},
	}
}

// RoundTrip forwards the request and records the outcome under the envelope's event id
func (d *deliveries) RoundTrip(req *http.Request) (*http.Response, error) {
	id := envelopeEventID(req)
	resp, err := d.next.RoundTrip(req)
	if id == "" {
		return resp, err
	}

	var outcome error
	switch {
	case err != nil:
		outcome = errors.Wrap(err, "post event envelope")
	case resp.StatusCode/100 != 2:
		outcome = errors.Errorf("event envelope rejected with status %d", resp.StatusCode)
	}
	d.record(id, outcome)
	return resp, err
}

func (d *deliveries) record(id string, err error) {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range d.results {
		if now.Sub(v.at) > deliveryTTL {
			delete(d.results, k)
		}
	}
	d.results[id] = delivery{err: err, at: now}
}

// watch marks eventID as owed to the request until settle is called
func (d *deliveries) watch(reqID, eventID string) {
	d.mu.Lock()
	d.pending[reqID] = append(d.pending[reqID], eventID)
	d.mu.Unlock()
}

// settle consumes the request's watched events; an event with no recorded answer
// never reached the backend (rate limited or dropped by the client)
func (d *deliveries) settle(reqID string) error {
	d.mu.Lock()
	ids := d.pending[reqID]
	delete(d.pending, reqID)
	var first error
	for _, id := range ids {
		res, ok := d.results[id]
		delete(d.results, id)
		if first != nil {
			continue
		}
		switch {
		case !ok:
			first = perr.Upstreamf("event %s was not delivered to the backend", id)
		case res.err != nil:
			first = perr.Wrap(res.err, perr.ErrorCodeUpstream, "sentry rejected event")
		}
	}
	d.mu.Unlock()
	return first
}

// envelopeEventID reads event_id from the envelope header line without consuming the body
func envelopeEventID(req *http.Request) string {
	if req.Method != http.MethodPost || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer body.Close()

	line, err := bufio.NewReader(io.LimitReader(body, 64<<10)).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return ""
	}
	var h envelopeHeader
	if json.Unmarshal(line, &h) != nil {
		return ""
	}
	return h.EventID
}
