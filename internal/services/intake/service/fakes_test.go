package service

import (
	"context"
	"errors"
	"os"
	"sync"

	"crashrelay/internal/core/event"
	"crashrelay/internal/modkit/repokit"
	"crashrelay/internal/services/intake/domain"
	"crashrelay/internal/services/intake/repo"
)

// fakeSink records what the service hands to the backend
type fakeSink struct {
	mu sync.Mutex

	events   []event.ErrorEvent
	atts     [][]event.Attachment
	readable []bool
	feedback []event.UserFeedback
	flushes  int

	captureErr  error
	feedbackErr error
	flushErr    error
}

func (f *fakeSink) Capture(_ context.Context, ev event.ErrorEvent, atts []event.Attachment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.captureErr != nil {
		return "", f.captureErr
	}
	ok := true
	for _, a := range atts {
		if _, err := os.Stat(a.Path); err != nil {
			ok = false
		}
	}
	f.events = append(f.events, ev)
	f.atts = append(f.atts, atts)
	f.readable = append(f.readable, ok)
	return "evt-1", nil
}

func (f *fakeSink) CaptureFeedback(_ context.Context, fb event.UserFeedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.feedbackErr != nil {
		return f.feedbackErr
	}
	f.feedback = append(f.feedback, fb)
	return nil
}

func (f *fakeSink) Flush(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return f.flushErr
}

// fakeLedger keeps receipts in memory
type fakeLedger struct {
	mu       sync.Mutex
	receipts []domain.Receipt
	err      error
}

func (f *fakeLedger) Record(_ context.Context, rc domain.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.receipts = append(f.receipts, rc)
	return nil
}

func (f *fakeLedger) Recent(_ context.Context, limit int) ([]domain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := append([]domain.Receipt(nil), f.receipts...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeTx runs fn on a dedicated tx queryer and records statements on both sides
type fakeTx struct {
	fakeQ
	q       *fakeQ
	txCalls int
}

func newFakeTx() *fakeTx { return &fakeTx{q: &fakeQ{}} }

func (f *fakeTx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error {
	f.txCalls++
	return fn(f.q)
}

type fakeQ struct{ sqls []string }

func (f *fakeQ) Exec(_ context.Context, sql string, _ ...any) (repokit.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	return nil, nil
}

func (f *fakeQ) Query(_ context.Context, sql string, _ ...any) (repokit.Rows, error) {
	f.sqls = append(f.sqls, sql)
	return nil, errors.New("fakeQ: no rows")
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, _ ...any) repokit.Row {
	f.sqls = append(f.sqls, sql)
	return nil
}

// fakeRepo remembers which queryer it was bound to
type fakeRepo struct {
	q        repokit.Queryer
	rows     *[]repo.Row
	err      error
	limitArg *int
}

func (r fakeRepo) EnsureSchema(ctx context.Context) error {
	_, _ = r.q.Exec(ctx, "ensure")
	return r.err
}

func (r fakeRepo) Insert(ctx context.Context, row repo.Row) error {
	_, _ = r.q.Exec(ctx, "insert")
	if r.err != nil {
		return r.err
	}
	*r.rows = append(*r.rows, row)
	return nil
}

func (r fakeRepo) Recent(_ context.Context, limit int) ([]repo.Row, error) {
	*r.limitArg = limit
	if r.err != nil {
		return nil, r.err
	}
	return *r.rows, nil
}

// fakeMirror collects mirrored rows
type fakeMirror struct {
	rows    []repo.Row
	ensured bool
	err     error
}

func (m *fakeMirror) EnsureSchema(context.Context) error { m.ensured = true; return m.err }

func (m *fakeMirror) Insert(_ context.Context, rows ...repo.Row) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, rows...)
	return nil
}
