package fields

import (
	"strings"

	"crashrelay/internal/core/event"
	"crashrelay/internal/core/report"
)

// Breadcrumb constants
const (
	CategoryLog = "log"
	LevelError  = "error"
	LevelInfo   = "info"
)

// EventLog maps each additionalData.EventLog entry to a breadcrumb in source order
func EventLog(r report.Report) []event.Breadcrumb {
	entries := r.List(PathEventLog)
	if len(entries) == 0 {
		return nil
	}

	out := make([]event.Breadcrumb, 0, len(entries))
	for _, raw := range entries {
		entry, _ := raw.(map[string]any)
		out = append(out, Breadcrumb(entry))
	}
	return out
}

// Breadcrumb builds one breadcrumb; absent keys behave as empty values
func Breadcrumb(entry map[string]any) event.Breadcrumb {
	level := LevelInfo
	if report.Text(entry["Level"]) == "Error" {
		level = LevelError
	}

	var b strings.Builder
	b.WriteString("Event: ")
	b.WriteString(report.Text(entry["EventName"]))
	if v := entry["Meta"]; report.Truthy(v) {
		b.WriteString("\nMeta: ")
		b.WriteString(report.Text(v))
	}
	if v := entry["Data"]; report.Truthy(v) {
		b.WriteString("\nData: ")
		b.WriteString(report.Text(v))
	}
	if v := entry["Comment"]; report.Truthy(v) {
		b.WriteString("\nComment:\n")
		b.WriteString(report.Text(v))
	}

	return event.Breadcrumb{
		Category:  CategoryLog,
		Level:     level,
		Message:   b.String(),
		Timestamp: Time(entry["Date"]),
	}
}
