// Package version reports build metadata stamped at link time
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for service
// set with -ldflags "-X 'factsongs/internal/core/version.version=v0.1.0' -X ...commit=abcd -X ...date=2026-01-01"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// Version returns the stamped version string
func Version() string { return version }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
