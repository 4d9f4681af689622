package repo

import (
	"context"

	"crashrelay/internal/platform/store"
)

// Mirror copies receipts into clickhouse for analytics
type Mirror interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, rows ...Row) error
}

// CHTable is the clickhouse table receipts land in
const CHTable = "report_intake"

// CH implements Mirror over the store clickhouse seam
type CH struct{ db store.Clickhouse }

// NewCH returns a clickhouse mirror, or nil when db is nil
func NewCH(db store.Clickhouse) Mirror {
	if db == nil {
		return nil
	}
	return &CH{db: db}
}

// EnsureSchema creates the receipts table when missing
func (c *CH) EnsureSchema(ctx context.Context) error {
	return c.db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS `+CHTable+` (
	request_id     String,
	event_id       String,
	release        LowCardinality(String),
	os_name        LowCardinality(String),
	exception_type String,
	attachments    UInt32,
	feedback       Bool,
	outcome        LowCardinality(String),
	error_code     LowCardinality(String),
	received_at    DateTime64(3, 'UTC'),
	elapsed_ms     UInt64
) ENGINE = MergeTree
ORDER BY (received_at, request_id)`)
}

// Insert appends rows in table column order
func (c *CH) Insert(ctx context.Context, rows ...Row) error {
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.RequestID,
			r.EventID,
			r.Release,
			r.OSName,
			r.ExceptionType,
			uint32(max(r.Attachments, 0)),
			r.Feedback,
			r.Outcome,
			r.ErrorCode,
			r.ReceivedAt.UTC(),
			uint64(max(r.ElapsedMs, 0)),
		})
	}
	return c.db.Insert(ctx, CHTable, data)
}
