// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Dashreel is the canonical application identifier used for filesystem paths and CLI branding.
	Dashreel = "dashreel"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the HTTP User-Agent string used for the release check.
	UserAgent = "dashreel/" + Version
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
