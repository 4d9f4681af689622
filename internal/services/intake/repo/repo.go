// Package repo persists intake receipts in postgres with an optional clickhouse copy
package repo

import (
	"context"
	"time"

	"crashrelay/internal/modkit/repokit"
	"crashrelay/internal/platform/store"
)

// Repo defines the receipt ledger contract
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, r Row) error
	Recent(ctx context.Context, limit int) ([]Row, error)
}

// Row is one receipt as stored
type Row struct {
	RequestID     string
	EventID       string
	Release       string
	OSName        string
	ExceptionType string
	Attachments   int
	Feedback      bool
	Outcome       string
	ErrorCode     string
	ReceivedAt    time.Time
	ElapsedMs     int64
}

// Limits for Recent
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

var schema = []string{
	`create table if not exists report_intake (
id bigserial primary key,
request_id text not null default '',
event_id text not null default '',
release text not null default '',
os_name text not null default '',
exception_type text not null default '',
attachments integer not null default 0,
feedback boolean not null default false,
outcome text not null,
error_code text not null default '',
received_at timestamptz not null,
elapsed_ms bigint not null default 0
)`,
	`create index if not exists report_intake_received_at_idx on report_intake (received_at desc)`,
}

func (r *queries) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *queries) Insert(ctx context.Context, row Row) error {
	const sql = `
insert into report_intake
(request_id, event_id, release, os_name, exception_type, attachments, feedback, outcome, error_code, received_at, elapsed_ms)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	return store.ExecOne(ctx, r.q, sql,
		row.RequestID,
		row.EventID,
		row.Release,
		row.OSName,
		row.ExceptionType,
		row.Attachments,
		row.Feedback,
		row.Outcome,
		row.ErrorCode,
		row.ReceivedAt,
		row.ElapsedMs,
	)
}

func (r *queries) Recent(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	const sql = `
select request_id, event_id, release, os_name, exception_type, attachments, feedback, outcome, error_code, received_at, elapsed_ms
from report_intake
order by received_at desc, id desc
limit $1
`
	return store.Many(ctx, r.q, scanRow, sql, limit)
}

func scanRow(s store.Row) (Row, error) {
	var rr Row
	err := s.Scan(
		&rr.RequestID,
		&rr.EventID,
		&rr.Release,
		&rr.OSName,
		&rr.ExceptionType,
		&rr.Attachments,
		&rr.Feedback,
		&rr.Outcome,
		&rr.ErrorCode,
		&rr.ReceivedAt,
		&rr.ElapsedMs,
	)
	return rr, err
}
