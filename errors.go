package abiverify

import "errors"

// Sentinel errors returned by Verify, mirroring the teacher's package-scope
// error values in internal/wasm/errors.go rather than ad-hoc fmt.Errorf at
// every call site.
var (
	// ErrNilModule is returned when Verify is called with a nil *ir.Module.
	ErrNilModule = errors.New("abiverify: module is nil")

	// ErrDisallowed is returned by VerifyOrError when the reporter recorded
	// at least one diagnostic. Use Verify directly if the diagnostics
	// themselves (not just "it failed") are needed.
	ErrDisallowed = errors.New("abiverify: module is not a member of the accepted subset")
)
