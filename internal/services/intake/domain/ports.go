package domain

import (
	"context"
	"io"

	"crashrelay/internal/core/event"
)

// Sink forwards composed events to the error-tracking backend
type Sink interface {
	Capture(ctx context.Context, ev event.ErrorEvent, atts []event.Attachment) (string, error)
	CaptureFeedback(ctx context.Context, fb event.UserFeedback) error
	Flush(ctx context.Context) error
}

// Ledger keeps receipts of processed uploads
type Ledger interface {
	Record(ctx context.Context, rc Receipt) error
	Recent(ctx context.Context, limit int) ([]Receipt, error)
}

// ServicePort is the intake contract used by transports
type ServicePort interface {
	Push(ctx context.Context, archive io.Reader) (PushResult, error)
	Directive() Directive
	Recent(ctx context.Context, in RecentInput) ([]Receipt, error)
}
