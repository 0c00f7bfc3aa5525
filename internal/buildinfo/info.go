// Package buildinfo carries the release identity stamped into partnerpay
// binaries with -ldflags "-X".
package buildinfo

import "fmt"

// Set at link time; the defaults identify a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the identity shown by `partnerpay --version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
