package abiverify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davidbrazdil/minsfi-llvm/internal/dialect"
)

// Config controls how a Verifier decides subset membership, built with
// NewConfig and the With* methods below -- each returns a new, independently
// mutable Config, the way the teacher's RuntimeConfig.With* methods clone
// before mutating (config.go).
type Config struct {
	dialectVersion     string
	allowDebugMetadata bool
	streamingMode      bool
	fatalThreshold     int
}

// configDefaults mirrors the teacher's engineLessConfig: a single place to
// get defaults right once rather than repeating them in every constructor.
var configDefaults = &Config{
	dialectVersion:     dialect.DefaultVersion,
	allowDebugMetadata: false,
	streamingMode:      false,
	fatalThreshold:     1,
}

// NewConfig returns a Config with the accepted subset's strictest defaults:
// no debug metadata, no streaming mode, and a fatal threshold of 1 (the
// module is rejected as soon as any diagnostic is recorded).
func NewConfig() *Config {
	return configDefaults.clone()
}

// clone ensures every field is copied even as Config grows new ones.
func (c *Config) clone() *Config {
	return &Config{
		dialectVersion:     c.dialectVersion,
		allowDebugMetadata: c.allowDebugMetadata,
		streamingMode:      c.streamingMode,
		fatalThreshold:     c.fatalThreshold,
	}
}

// WithDialectVersion selects the semver-matched internal/dialect.Table that
// supplies the vector-length admissibility table (spec.md §4.1). Defaults to
// dialect.DefaultVersion. An unresolvable version is not rejected here --
// NewVerifierWithConfig surfaces the error when it resolves the Table, so
// one bad Config can't silently fall back to defaults.
func (c *Config) WithDialectVersion(version string) *Config {
	ret := c.clone()
	ret.dialectVersion = version
	return ret
}

// WithAllowDebugMetadata admits "llvm.dbg."-prefixed named metadata,
// per-instruction "dbg" metadata attachments, and the dbg.declare/dbg.value
// intrinsics (spec.md §4.2/§4.3/§4.4.9). Defaults to false.
func (c *Config) WithAllowDebugMetadata(allow bool) *Config {
	ret := c.clone()
	ret.allowDebugMetadata = allow
	return ret
}

// WithStreamingMode tolerates function declarations without a body (spec.md
// §4.3's streaming-mode carve-out, for hosts that compile a module while it
// is still arriving over the wire). Defaults to false.
func (c *Config) WithStreamingMode(streaming bool) *Config {
	ret := c.clone()
	ret.streamingMode = streaming
	return ret
}

// WithFatalThreshold overrides how many diagnostics the Reporter accumulates
// before CheckFatal reports true. 0 disables the fatal check, letting a
// caller collect every diagnostic in one pass. Defaults to 1.
func (c *Config) WithFatalThreshold(n int) *Config {
	ret := c.clone()
	ret.fatalThreshold = n
	return ret
}

// fileConfig is the YAML document shape read by LoadConfigFile, grounded on
// roach88-nysm's use of gopkg.in/yaml.v3 for its own CUE-adjacent tooling
// config. Field names are kebab-case to match cmd/abiverify's flag names.
type fileConfig struct {
	DialectVersion     string `yaml:"dialect-version"`
	AllowDebugMetadata bool   `yaml:"allow-debug-metadata"`
	StreamingMode      bool   `yaml:"streaming-mode"`
	FatalThreshold      *int  `yaml:"fatal-threshold"`
}

// LoadConfigFile reads a YAML config file of the shape documented on
// fileConfig and applies it on top of NewConfig's defaults. Used by
// cmd/abiverify's --config flag; any field absent from the file keeps its
// default rather than zeroing out.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("abiverify: reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("abiverify: parsing config file %s: %w", path, err)
	}

	c := NewConfig()
	if fc.DialectVersion != "" {
		c = c.WithDialectVersion(fc.DialectVersion)
	}
	c = c.WithAllowDebugMetadata(fc.AllowDebugMetadata)
	c = c.WithStreamingMode(fc.StreamingMode)
	if fc.FatalThreshold != nil {
		c = c.WithFatalThreshold(*fc.FatalThreshold)
	}
	return c, nil
}
