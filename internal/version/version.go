// Package version reports the version of this module as resolved by the Go
// module system, the way internal/version does in
// github.com/tetratelabs/wazero for downstream users who embed the verifier
// as a library rather than building from this repository directly.
package version

import "runtime/debug"

// devVersion is returned when build info is unavailable, e.g. when the
// caller built with GOFLAGS=-mod=vendor against a replaced local copy that
// has no module version, or when running under `go run`.
const devVersion = "dev"

// GetVersion returns the version of this module as resolved at build time.
// It returns the build's own Main.Version when abiverify is the main module
// and that version is set and not "(devel)"; otherwise it looks for this
// module's entry in runtime/debug.BuildInfo.Deps (abiverify imported as a
// dependency), preferring a replacement's version. If neither yields a
// version it returns devVersion.
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return devVersion
	}
	if info.Main.Path == modulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			if dep.Replace != nil && dep.Replace.Version != "" {
				return dep.Replace.Version
			}
			if dep.Version != "" {
				return dep.Version
			}
		}
	}
	return devVersion
}

// modulePath is this module's import path, kept in sync with go.mod by
// hand since it cannot be read back from the module file at runtime.
const modulePath = "github.com/davidbrazdil/minsfi-llvm"
