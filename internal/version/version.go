// Package version reports the build of the hexed tools.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/timmattison/hexed/internal/version.GitHash=$(git rev-parse --short=7 HEAD) \
//	                   -X github.com/timmattison/hexed/internal/version.GitDirty=$(if git diff --quiet 2>/dev/null; then echo clean; else echo dirty; fi) \
//	                   -X github.com/timmattison/hexed/internal/version.Version=0.1.0"
//
// Without ldflags the VCS information embedded by the Go toolchain is used
// when it is available.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version  = "0.1.0"
	GitHash  = "unknown"
	GitDirty = "unknown"
)

// String returns "tool 0.1.0 (abc1234, clean)".
func String(toolName string) string {
	return fmt.Sprintf("%s %s", toolName, Short())
}

// Short returns "0.1.0 (abc1234, clean)".
func Short() string {
	hash, dirty := buildInfo(debug.ReadBuildInfo)

	return fmt.Sprintf("%s (%s, %s)", Version, hash, dirty)
}

// buildInfo prefers the ldflags values and falls back to the vcs settings
// recorded in the binary.
func buildInfo(read func() (*debug.BuildInfo, bool)) (hash string, dirty string) {
	hash, dirty = GitHash, GitDirty

	if hash != "unknown" {
		return hash, dirty
	}

	info, ok := read()
	if !ok {
		return hash, dirty
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			hash = setting.Value[:min(7, len(setting.Value))]
		case "vcs.modified":
			if setting.Value == "true" {
				dirty = "dirty"
			} else {
				dirty = "clean"
			}
		}
	}

	return hash, dirty
}
