package internal

import (
	"fmt"
	"runtime"
	"strings"
)

// Binary name, used for logging groups, CLI help, and path naming.
const Name = "lucius-mcp-worker"

// String to indicate a local (non-pipeline) build.
const defaultLocalBuild = "(local)"

var (
	version   = "" // Version number (e.g., "0.3.1").
	gitCommit = "" // Git commit hash (e.g., "a1b2c3d4").
)

// Returns the current version with any "v" prefix stripped, or an empty
// string when the version was not stamped at build time.
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	return strings.TrimPrefix(v, "v")
}

// Returns the git commit hash, or an empty string when not stamped.
func GitCommit() string {
	return strings.TrimSpace(gitCommit)
}

// Returns true if this is a local (non-pipeline) build.
//
// Pipeline builds stamp both the version and the commit hash via linker
// flags; a build missing either is treated as local.
func IsLocal() bool {
	return Version() == "" || GitCommit() == ""
}

// Returns a detailed version string.
//
// If this is a local build, returns "(local)". Otherwise, returns a string
// formatted as "<version> <git-commit> [<arch>]".
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}
	return fmt.Sprintf("%s %s [%s]", Version(), GitCommit(), runtime.GOARCH)
}
