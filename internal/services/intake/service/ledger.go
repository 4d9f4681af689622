package service

import (
	"context"
	"time"

	"crashrelay/internal/modkit/repokit"
	perr "crashrelay/internal/platform/errors"
	"crashrelay/internal/services/intake/domain"
	"crashrelay/internal/services/intake/repo"
)

// Ledger records receipts in postgres and mirrors them to clickhouse when configured
type Ledger struct {
	// Repo is bound to the pool and serves reads
	Repo   repo.Repo
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	mirror repo.Mirror
}

var _ domain.Ledger = (*Ledger)(nil)

// DefaultStatementTimeout caps each ledger write statement
const DefaultStatementTimeout = 5 * time.Second

// LedgerOption configures a Ledger
type LedgerOption func(*ledgerCfg)

type ledgerCfg struct {
	mirror      repo.Mirror
	stmtTimeout time.Duration
}

// WithMirror copies every receipt to clickhouse
func WithMirror(m repo.Mirror) LedgerOption { return func(c *ledgerCfg) { c.mirror = m } }

// WithStatementTimeout overrides DefaultStatementTimeout; 0 disables it
func WithStatementTimeout(d time.Duration) LedgerOption {
	return func(c *ledgerCfg) { c.stmtTimeout = d }
}

// NewLedger binds the receipt repo to db
// writes run in a transaction that starts with a local statement timeout
func NewLedger(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...LedgerOption) *Ledger {
	if db == nil {
		panic("intake.Ledger requires a non nil TxRunner")
	}
	if binder == nil {
		panic("intake.Ledger requires a non nil Repo binder")
	}
	cfg := ledgerCfg{stmtTimeout: DefaultStatementTimeout}
	for _, o := range opts {
		o(&cfg)
	}
	return &Ledger{
		Repo:   repokit.MustBind(binder, db),
		tx:     repokit.WithBeginHooks(db, repokit.StatementTimeout(cfg.stmtTimeout)),
		binder: binder,
		mirror: cfg.mirror,
	}
}

// EnsureSchema creates the receipt tables on every configured backend
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	err := repokit.InTx(ctx, l.tx, l.binder, func(r repo.Repo) error { return r.EnsureSchema(ctx) })
	if err != nil {
		return perr.FromPostgres(err, "ensure receipt schema")
	}
	if l.mirror != nil {
		if err := l.mirror.EnsureSchema(ctx); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "ensure clickhouse receipt schema")
		}
	}
	return nil
}

// Record stores rc; a mirror failure does not undo the postgres row
func (l *Ledger) Record(ctx context.Context, rc domain.Receipt) error {
	row := toRow(rc)
	err := repokit.InTx(ctx, l.tx, l.binder, func(r repo.Repo) error { return r.Insert(ctx, row) })
	if err != nil {
		return perr.FromPostgres(err, "record receipt")
	}
	if l.mirror != nil {
		if err := l.mirror.Insert(ctx, row); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "mirror receipt")
		}
	}
	return nil
}

// Recent lists the newest receipts first
func (l *Ledger) Recent(ctx context.Context, limit int) ([]domain.Receipt, error) {
	rows, err := l.Repo.Recent(ctx, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list receipts")
	}
	out := make([]domain.Receipt, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out, nil
}

func toRow(rc domain.Receipt) repo.Row {
	return repo.Row{
		RequestID:     rc.RequestID,
		EventID:       rc.EventID,
		Release:       rc.Release,
		OSName:        rc.OSName,
		ExceptionType: rc.ExceptionType,
		Attachments:   rc.Attachments,
		Feedback:      rc.Feedback,
		Outcome:       rc.Outcome,
		ErrorCode:     rc.ErrorCode,
		ReceivedAt:    rc.ReceivedAt,
		ElapsedMs:     rc.Elapsed.Milliseconds(),
	}
}

func fromRow(r repo.Row) domain.Receipt {
	return domain.Receipt{
		RequestID:     r.RequestID,
		EventID:       r.EventID,
		Release:       r.Release,
		OSName:        r.OSName,
		ExceptionType: r.ExceptionType,
		Attachments:   r.Attachments,
		Feedback:      r.Feedback,
		Outcome:       r.Outcome,
		ErrorCode:     r.ErrorCode,
		ReceivedAt:    r.ReceivedAt,
		Elapsed:       time.Duration(r.ElapsedMs) * time.Millisecond,
	}
}

// errLedgerDisabled is returned by Recent when no ledger is wired
var errLedgerDisabled = perr.Unavailablef("intake ledger is disabled")
