// Package version provides information about the build version of the relay
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service" example:"crashrelay-api"`
	Version string `json:"version" example:"v0.3.0"`
	Commit  string `json:"commit"  example:"4f2a9c1"`
	Date    string `json:"date"    example:"2025-09-02"`
}

// Set via -ldflags "-X 'crashrelay/internal/core/version.version=v0.0.1'
// -X 'crashrelay/internal/core/version.commit=abcd' -X 'crashrelay/internal/core/version.date=2025-09-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders "service version (commit, date)"
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}
