package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	for _, toolName := range []string{"hexed", "hexfind", "hex-info", ""} {
		result := String(toolName)

		require.True(t, strings.HasPrefix(result, toolName+" "+Version+" ("), result)
		require.True(t, strings.HasSuffix(result, ")"), result)
		require.Contains(t, result, ", ")
	}
}

func TestShort(t *testing.T) {
	result := Short()

	require.True(t, strings.HasPrefix(result, Version+" ("), result)
}

func TestBuildInfo(t *testing.T) {
	withSettings := func(settings ...debug.BuildSetting) func() (*debug.BuildInfo, bool) {
		return func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Settings: settings}, true
		}
	}

	t.Run("vcs settings", func(t *testing.T) {
		hash, dirty := buildInfo(withSettings(
			debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"},
			debug.BuildSetting{Key: "vcs.modified", Value: "true"},
		))
		require.Equal(t, "0123456", hash)
		require.Equal(t, "dirty", dirty)
	})

	t.Run("no build info", func(t *testing.T) {
		hash, dirty := buildInfo(func() (*debug.BuildInfo, bool) { return nil, false })
		require.Equal(t, "unknown", hash)
		require.Equal(t, "unknown", dirty)
	})

	t.Run("ldflags win", func(t *testing.T) {
		saved := GitHash
		t.Cleanup(func() { GitHash = saved })

		GitHash = "abc1234"

		hash, _ := buildInfo(withSettings(debug.BuildSetting{Key: "vcs.revision", Value: "ffffffffff"}))
		require.Equal(t, "abc1234", hash)
	})
}
