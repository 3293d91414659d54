// Package constant defines immutable application-level identifiers and wire-level names shared with the native media host.
package constant

const (
	// Mediabridge is the canonical application identifier used for filesystem paths and CLI branding.
	Mediabridge = "mediabridge"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
