// Package domain holds DTOs and ports for the crash report intake
package domain

import "time"

// Outcomes recorded on a receipt
const (
	OutcomeSent     = "sent"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// PushResult is returned to the client after a report was forwarded
type PushResult struct {
	EventID     string   `json:"event_id" example:"9f1c2e0d5b6a4c3e8f7d6c5b4a392817"`
	Attachments []string `json:"attachments" example:"report.json,screenshot.png"`
	Feedback    bool     `json:"feedback" example:"true"`
}

// Directive is the getInfo answer telling the client whether and how to send reports
type Directive struct {
	NeedSendReport bool   `json:"needSendReport" example:"true"`
	UserMessage    string `json:"userMessage" example:""`
	DumpType       int    `json:"dumpType" example:"1"`
}

// Receipt is the metadata kept about one processed upload
// the report body itself is never stored
type Receipt struct {
	RequestID     string        `json:"request_id"`
	EventID       string        `json:"event_id,omitempty"`
	Release       string        `json:"release,omitempty"`
	OSName        string        `json:"os_name,omitempty"`
	ExceptionType string        `json:"exception_type,omitempty"`
	Attachments   int           `json:"attachments"`
	Feedback      bool          `json:"feedback"`
	Outcome       string        `json:"outcome"`
	ErrorCode     string        `json:"error_code,omitempty"`
	ReceivedAt    time.Time     `json:"received_at"`
	Elapsed       time.Duration `json:"elapsed_ns" swaggertype:"integer"`
}

// RecentInput filters the receipt listing
type RecentInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}
