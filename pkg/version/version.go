// Package version provides version information for notepack.
// These variables are set via ldflags during the build process.
package version

import "runtime"

// Version is the current version of the binary.
// Set via -ldflags "-X github.com/cicd-ai-toolkit/notepack/pkg/version.Version=..."
var Version = "dev"

// BuildDate is the date when the binary was built.
// Set via -ldflags "-X github.com/cicd-ai-toolkit/notepack/pkg/version.BuildDate=..."
var BuildDate = "unknown"

// GitCommit is the git commit hash used to build the binary.
// Set via -ldflags "-X github.com/cicd-ai-toolkit/notepack/pkg/version.GitCommit=..."
var GitCommit = "unknown"

// GoVersion is the Go version used to build the binary. It falls back to
// the running toolchain when not set at link time.
var GoVersion = ""

// String returns a formatted version string.
func String() string {
	return Version
}

// FullString returns a detailed version string including build info.
func FullString() string {
	if Version == "dev" {
		return "notepack development version"
	}
	return "notepack " + Version
}

// Info returns all version information as a map.
func Info() map[string]string {
	goVersion := GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return map[string]string{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": GitCommit,
		"goVersion": goVersion,
	}
}
