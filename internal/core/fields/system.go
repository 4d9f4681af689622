package fields

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"crashrelay/internal/core/event"
	"crashrelay/internal/core/report"
)

// Architecture labels
const (
	ArchX86   = "x86"
	ArchX8664 = "x86_64"
)

// OS names
const (
	OSWindows = "Windows"
	OSMacOS   = "macOS"
	OSLinux   = "Linux"
	OSUnknown = "Unknown"
)

// caser is not safe for concurrent use, so one is made per call
func lower(s string) string { return cases.Lower(language.Und).String(s) }

// Arch infers the architecture from the platform type, eg Windows_x86 or Windows_x86_64
func Arch(platformType string) string {
	if strings.HasSuffix(platformType, "x86") {
		return ArchX86
	}
	return ArchX8664
}

// OSName maps the platform type prefix to an OS family name
func OSName(platformType string) string {
	p := lower(platformType)
	switch {
	case strings.HasPrefix(p, "windows"):
		return OSWindows
	case strings.HasPrefix(p, "macos"):
		return OSMacOS
	case strings.HasPrefix(p, "linux"):
		return OSLinux
	default:
		return OSUnknown
	}
}

// osVersionSurgery runs in order over the lower-cased string
// Tuned to "Microsoft Windows 10 version 10.0  (Build 19042)" style strings; others pass partially normalized
var osVersionSurgery = []struct{ old, new string }{
	{"microsoft", ""},
	{"windows 10", ""},
	{"windows 8.1", ""},
	{"version", ""},
	{"build", "."},
	{"(", ""},
	{")", ""},
	{" ", ""},
}

// OSVersion normalizes a raw OS version string
func OSVersion(raw string) string {
	s := lower(raw)
	for _, op := range osVersionSurgery {
		s = strings.ReplaceAll(s, op.old, op.new)
	}
	return s
}

// OS reads the os context from the report
func OS(r report.Report) (event.OSContext, error) {
	pt, err := r.String(PathPlatformType)
	if err != nil {
		return event.OSContext{}, err
	}
	ver, err := r.String(PathOSVersion)
	if err != nil {
		return event.OSContext{}, err
	}
	return event.OSContext{Name: OSName(pt), Version: OSVersion(ver)}, nil
}
