// Package env holds build-time identity variables shared by the CLI and
// anything that reports on behalf of this tool (logs, mount labels).
package env

const AppName = "cairn"

// Version, CommitHash and BuildTime are overridden at link time via
// -ldflags "-X github.com/cairnfs/cairn/internal/env.Version=...". They
// default to placeholders for unreleased/dev builds.
var (
	Version    = "dev"
	CommitHash = "none"
	BuildTime  = "unknown"
)
