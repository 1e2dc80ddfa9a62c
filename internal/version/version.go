// Package version provides centralized version information for ElectroGest binaries.
// The electrogestd dashboard daemon and the electrogest launcher are versioned
// independently so the launcher can roll forward without forcing a daemon release.
// All versions follow semantic versioning (semver) conventions.

package version

// DaemonVersion holds the current electrogestd dashboard daemon version.
// Format: major.minor.patch[-prerelease][+build]
const DaemonVersion = "1.0.0"

// LauncherVersion holds the current electrogest launcher version.
// This is used by the launcher binary and allows independent evolution
// of the bootstrap tool separate from the dashboard itself.
// Format: major.minor.patch[-prerelease][+build]
const LauncherVersion = "1.0.0"
