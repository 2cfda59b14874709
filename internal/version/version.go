// Package version records build metadata stamped by the release pipeline.
package version

import "strings"

// Version is the semantic version of this build.
const Version = "0.1.0"

// Commit is the short git commit, injected via -ldflags at build time.
// Release builds stamp the literal "release" so the suffix is dropped.
var Commit = ""

// String returns the user-facing version: v<semver> for release builds,
// v<semver>+<commit> for stamped dev builds, v<semver>+dev otherwise.
func String() string {
	switch c := strings.TrimSpace(Commit); c {
	case "release":
		return "v" + Version
	case "":
		return "v" + Version + "+dev"
	default:
		return "v" + Version + "+" + c
	}
}
