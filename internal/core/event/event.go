// Package event holds the canonical error event model produced from a crash report
// Values here are plain data; transport specifics live in the sink adapters
package event

import "time"

// Fixed identity stamped on every composed event
const (
	SDKName     = "sentry.bsl"
	SDKVersion  = "0.0.1"
	Platform    = "Other"
	Level       = "error"
	Undefined   = "<Undefined>"
	MissingText = "<Exception text is missing>"
	MissingType = "UndefinedError"
)

// Context block names
const (
	ContextDevice  = "device"
	ContextOS      = "os"
	ContextRuntime = "runtime"
	ContextApp     = "app"
)

// Extra attribute names, in the order the client documents them
var ExtraKeys = []string{
	"CompatibilityMode",
	"ChangeEnabled",
	"DBMS",
	"ServerType",
	"ConfigurationInterfaceLanguageCode",
	"PlatformInterfaceLanguageCode",
	"LocaleCode",
	"InfoBaseLocaleCode",
	"DataSeparation",
}

// Frame is one stack frame; frames from the report are always in-app
type Frame struct {
	Function    string `json:"function"`
	Line        int    `json:"lineno"`
	ContextLine string `json:"context_line"`
	InApp       bool   `json:"in_app"`
}

// StackTrace is an ordered list of frames as the client reported them
type StackTrace struct {
	Frames []Frame `json:"frames"`
}

// ExceptionInfo describes the single exception of a report
type ExceptionInfo struct {
	Type       string      `json:"type"`
	Value      string      `json:"value"`
	Module     string      `json:"module"`
	Stacktrace *StackTrace `json:"stacktrace,omitempty"`
}

// UserIdentity is the reporting user
type UserIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Breadcrumb is one event-log entry
type Breadcrumb struct {
	Category  string    `json:"category"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SDK identifies the producer of the event
type SDK struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Contexts groups the four context blocks
type Contexts struct {
	Device  DeviceContext  `json:"device"`
	OS      OSContext      `json:"os"`
	Runtime RuntimeContext `json:"runtime"`
	App     AppContext     `json:"app"`
}

// Map returns the blocks keyed by their wire name
func (c Contexts) Map() map[string]map[string]any {
	return map[string]map[string]any{
		ContextDevice:  c.Device.Map(),
		ContextOS:      c.OS.Map(),
		ContextRuntime: c.Runtime.Map(),
		ContextApp:     c.App.Map(),
	}
}

// ErrorEvent is the composed record handed to a sink
type ErrorEvent struct {
	Exception   []ExceptionInfo `json:"exception"`
	Release     string          `json:"release"`
	Timestamp   time.Time       `json:"timestamp"`
	SDK         SDK             `json:"sdk"`
	Platform    string          `json:"platform"`
	Level       string          `json:"level"`
	Contexts    Contexts        `json:"contexts"`
	User        UserIdentity    `json:"user"`
	Breadcrumbs []Breadcrumb    `json:"breadcrumbs,omitempty"`
	Extra       map[string]any  `json:"extra"`
}

// PrimaryException returns the first exception, or the zero value
func (e ErrorEvent) PrimaryException() ExceptionInfo {
	if len(e.Exception) == 0 {
		return ExceptionInfo{}
	}
	return e.Exception[0]
}

// UserFeedback is the optional free-text comment tied to a submitted event
type UserFeedback struct {
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Comments string `json:"comments"`
}

// Attachment is a file shipped alongside the event
type Attachment struct {
	Name string `json:"name"`
	Path string `json:"-"`
	Size int64  `json:"size"`
}
