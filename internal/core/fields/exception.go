// Package fields turns sections of a crash report into typed event values
// Every parser is a pure function of the report; optional data falls back, required data errors
package fields

import (
	"strings"

	"crashrelay/internal/core/event"
	"crashrelay/internal/core/report"
)

// Report paths read by the parsers
const (
	PathAppErrorInfo = "errorInfo.applicationErrorInfo"
	PathErrors       = PathAppErrorInfo + ".errors"
	PathStack        = PathAppErrorInfo + ".stack"
	PathPlatformType = "clientInfo.platformType"
	PathOSVersion    = "clientInfo.systemInfo.osVersion"
	PathUserName     = "sessionInfo.userName"
	PathDataSep      = "sessionInfo.dataSeparation"
	PathEventLog     = "additionalData.EventLog"
	PathTime         = "time"
	PathFeedback     = "errorInfo.userDescription"
)

// Exception parses the first reported error together with the stack
// The application error section itself is required; its errors and stack are not
func Exception(r report.Report) (event.ExceptionInfo, error) {
	if _, err := r.Value(PathAppErrorInfo); err != nil {
		return event.ExceptionInfo{}, err
	}

	exc := SplitError(r.List(PathErrors))
	exc.Stacktrace = Stacktrace(r)
	return exc, nil
}

// SplitError applies the exception text rule to an errors list
// An entry is [text, typeList]; text "Module:Presentation" yields module and value,
// any other number of colon separated parts yields the missing text placeholder
func SplitError(errors []any) event.ExceptionInfo {
	if len(errors) == 0 {
		return event.ExceptionInfo{Type: event.MissingType, Value: event.MissingText, Module: ""}
	}

	entry, _ := errors[0].([]any)
	var text string
	var types any
	if len(entry) > 0 {
		text = report.Text(entry[0])
	}
	if len(entry) > 1 {
		types = entry[1]
	}

	exc := event.ExceptionInfo{Type: joinTypes(types), Value: event.MissingText}
	if parts := strings.Split(text, ":"); len(parts) == 2 {
		exc.Module = strings.NewReplacer("{", "", "}", "").Replace(parts[0])
		exc.Value = parts[1]
	}
	return exc
}

func joinTypes(v any) string {
	switch t := v.(type) {
	case []any:
		names := make([]string, 0, len(t))
		for _, n := range t {
			names = append(names, report.Text(n))
		}
		return strings.Join(names, ", ")
	default:
		return report.Text(t)
	}
}

// Stacktrace maps [function, line, context_line] entries to in-app frames
// An absent or empty stack gives nil
func Stacktrace(r report.Report) *event.StackTrace {
	stack := r.List(PathStack)
	if len(stack) == 0 {
		return nil
	}

	frames := make([]event.Frame, 0, len(stack))
	for _, raw := range stack {
		f := event.Frame{InApp: true}
		entry, _ := raw.([]any)
		if len(entry) > 0 {
			f.Function = report.Text(entry[0])
		}
		if len(entry) > 1 {
			f.Line, _ = report.Int(entry[1])
		}
		if len(entry) > 2 {
			f.ContextLine = report.Text(entry[2])
		}
		frames = append(frames, f)
	}
	return &event.StackTrace{Frames: frames}
}
