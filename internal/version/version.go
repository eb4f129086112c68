// Package version carries build metadata injected via -ldflags.
package version

var (
	// Version is the release version, e.g. "0.3.1".
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
)
