// Package version provides build-time version information for curve-viewer.
package version

// These variables are set at build time using -ldflags, e.g.
//
//	go build -ldflags "-X curve-viewer/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// Version is the semantic version
	Version = "0.3.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)
