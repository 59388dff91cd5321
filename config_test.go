package abiverify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbrazdil/minsfi-llvm/internal/dialect"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		with     func(*Config) *Config
		expected *Config
	}{
		{
			name: "dialectVersion",
			with: func(c *Config) *Config {
				return c.WithDialectVersion("1.2.3")
			},
			expected: &Config{dialectVersion: "1.2.3", fatalThreshold: 1},
		},
		{
			name: "allowDebugMetadata",
			with: func(c *Config) *Config {
				return c.WithAllowDebugMetadata(true)
			},
			expected: &Config{dialectVersion: dialect.DefaultVersion, allowDebugMetadata: true, fatalThreshold: 1},
		},
		{
			name: "streamingMode",
			with: func(c *Config) *Config {
				return c.WithStreamingMode(true)
			},
			expected: &Config{dialectVersion: dialect.DefaultVersion, streamingMode: true, fatalThreshold: 1},
		},
		{
			name: "fatalThreshold",
			with: func(c *Config) *Config {
				return c.WithFatalThreshold(0)
			},
			expected: &Config{dialectVersion: dialect.DefaultVersion, fatalThreshold: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.with(NewConfig())
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestConfigWithIsIndependent(t *testing.T) {
	base := NewConfig()
	derived := base.WithAllowDebugMetadata(true)
	require.False(t, base.allowDebugMetadata)
	require.True(t, derived.allowDebugMetadata)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abiverify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
allow-debug-metadata: true
streaming-mode: true
fatal-threshold: 0
`), 0o644))

	c, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, &Config{
		dialectVersion:     dialect.DefaultVersion,
		allowDebugMetadata: true,
		streamingMode:      true,
		fatalThreshold:     0,
	}, c)
}

func TestLoadConfigFileMissingFieldsKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abiverify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`streaming-mode: true`), 0o644))

	c, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, dialect.DefaultVersion, c.dialectVersion)
	require.Equal(t, 1, c.fatalThreshold)
	require.True(t, c.streamingMode)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
