// Package version carries build metadata, set with
// -ldflags "-X github.com/itsmostafa/tanaline/internal/version.Version=...".
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String formats the version line printed by tanaline --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// UserAgent identifies tanaline in API requests.
func UserAgent() string {
	return "tanaline/" + Version
}
