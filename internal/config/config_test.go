package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 16, c.BytesPerLine)
	require.Equal(t, 1024, c.EntropyBlockSize)
	require.InDelta(t, 0.5, c.EntropyMargin, 1e-9)
	require.Equal(t, 4, c.MinStringSize)
	require.Equal(t, SchemeDefault, c.ColorScheme)
	require.True(t, c.ShowASCII)
	require.False(t, c.LockBuffers)
	require.NoError(t, c.Validate())
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		value string
		get   string
	}{
		{"bytes_per_line", "32", "32"},
		{"entropy_block_size", " 256 ", "256"},
		{"entropy_margin", "0.25", "0.25"},
		{"min_string_size", "8", "8"},
		{"max_file_size", "0", "0"},
		{"color_scheme", "MONO", "mono"},
		{"show_ascii", "off", "false"},
		{"lock_buffers", "yes", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			require.NoError(t, c.Set(tt.name, tt.value))

			got, err := c.Get(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.get, got)
		})
	}
}

func TestSet_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		value string
		err   error
	}{
		{"no_such_thing", "1", ErrUnknownVariable},
		{"bytes_per_line", "sixteen", ErrInvalidValue},
		{"bytes_per_line", "0", ErrInvalidValue},
		{"entropy_margin", "0.05", ErrInvalidValue},
		{"entropy_margin", "wide", ErrInvalidValue},
		{"max_file_size", "-1", ErrInvalidValue},
		{"color_scheme", "neon", ErrInvalidValue},
		{"show_ascii", "maybe", ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			c := Default()
			require.ErrorIs(t, c.Set(tt.name, tt.value), tt.err)
			require.Equal(t, Default(), c, "a rejected value leaves the config untouched")
		})
	}
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{
		"bytes_per_line", "color_scheme", "entropy_block_size", "entropy_margin",
		"lock_buffers", "max_file_size", "min_string_size", "show_ascii",
	}, Names())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		c, err := Load(filepath.Join(dir, "missing.yaml"))
		require.NoError(t, err)
		require.Equal(t, Default(), c)
	})

	t.Run("partial file", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bytes_per_line: 8\ncolor_scheme: bright\n"), 0o644))

		c, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 8, c.BytesPerLine)
		require.Equal(t, SchemeBright, c.ColorScheme)
		require.Equal(t, 1024, c.EntropyBlockSize)
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entropy_margin: 0.01\n"), 0o644))

		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("not yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bytes_per_line: [\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c := Default()
	require.NoError(t, c.Set("lock_buffers", "true"))
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, c, loaded)
}
