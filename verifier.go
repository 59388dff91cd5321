// Package abiverify decides whether an in-memory IR module is a member of
// the accepted low-level-IR subset, wiring internal/abitypes,
// internal/intrinsics, internal/modcheck, internal/funccheck, and
// internal/dialect behind one entry point. Grounded on the teacher's root
// wazero package, which wires internal/wasm, internal/wasm/interpreter, and
// internal/wasm/jit behind a Runtime built from a RuntimeConfig.
package abiverify

import (
	"fmt"

	"github.com/davidbrazdil/minsfi-llvm/internal/diagnostic"
	"github.com/davidbrazdil/minsfi-llvm/internal/dialect"
	"github.com/davidbrazdil/minsfi-llvm/internal/funccheck"
	"github.com/davidbrazdil/minsfi-llvm/internal/intrinsics"
	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
	"github.com/davidbrazdil/minsfi-llvm/internal/modcheck"
)

// Verifier checks an *ir.Module against the accepted subset, the way the
// teacher's Runtime decodes and instantiates WebAssembly modules.
//
// Ex.
//	v := abiverify.NewVerifier()
//	report, err := v.Verify(module)
type Verifier interface {
	// Verify runs the module pass followed by the function pass over every
	// defined function, in the order spec.md §5 requires, and returns the
	// Reporter holding every diagnostic recorded. Once the Reporter's fatal
	// threshold is reached (checked after the module pass and after each
	// function), no further function is checked. err is non-nil only for
	// ErrNilModule -- a misconfigured DialectVersion is reported by
	// NewVerifierWithConfig, and a module that fails verification is
	// reported via the Reporter, not via err.
	Verify(m *ir.Module) (*diagnostic.Reporter, error)

	// VerifyOrError is a convenience wrapper: it calls Verify, prints
	// nothing, and returns ErrDisallowed if the Reporter recorded any
	// diagnostic, so a caller that only needs a pass/fail boolean does not
	// have to inspect the Reporter itself.
	VerifyOrError(m *ir.Module) error
}

// NewVerifier returns a Verifier built from NewConfig's defaults.
func NewVerifier() Verifier {
	v, err := NewVerifierWithConfig(NewConfig())
	if err != nil {
		// NewConfig's defaults always resolve; a panic here means
		// configDefaults.dialectVersion was edited to an invalid constant.
		panic(err)
	}
	return v
}

// NewVerifierWithConfig returns a Verifier built from the given Config,
// resolving its DialectVersion against internal/dialect up front so a typo'd
// version string fails fast rather than on the first Verify call.
func NewVerifierWithConfig(config *Config) (Verifier, error) {
	table, err := dialect.Resolve(config.dialectVersion)
	if err != nil {
		return nil, fmt.Errorf("abiverify: %w", err)
	}
	return &verifier{config: config, dialectTable: table}, nil
}

// verifier decouples the public Verifier interface from its internal
// representation, the way the teacher's runtime struct decouples Runtime.
type verifier struct {
	config       *Config
	dialectTable *dialect.Table
}

func (v *verifier) Verify(m *ir.Module) (*diagnostic.Reporter, error) {
	if m == nil {
		return nil, ErrNilModule
	}

	registry := intrinsics.NewRegistry(scalarTypes(m.Types), v.config.allowDebugMetadata)

	r := diagnostic.New().WithFatalThreshold(v.config.fatalThreshold)

	modOpts := modcheck.Options{
		Lengths:            v.dialectTable,
		Intrinsics:         registry,
		AllowDebugMetadata: v.config.allowDebugMetadata,
		StreamingMode:      v.config.streamingMode,
	}
	modcheck.Check(m, modOpts, r)
	if r.CheckFatal() {
		return r, nil
	}

	funcOpts := funccheck.Options{
		Lengths:            v.dialectTable,
		Intrinsics:         registry,
		AllowDebugMetadata: v.config.allowDebugMetadata,
	}
	for _, f := range m.Functions {
		funccheck.Check(m.Types, f, funcOpts, r)
		if r.CheckFatal() {
			break
		}
	}

	return r, nil
}

func (v *verifier) VerifyOrError(m *ir.Module) error {
	r, err := v.Verify(m)
	if err != nil {
		return err
	}
	if r.HasDiagnostics() {
		return ErrDisallowed
	}
	return nil
}

// scalarTypes interns the fixed scalar/pointer types internal/intrinsics'
// fixed signature table is built from into types, the module's own arena --
// intrinsic call sites in the module reference these same interned IDs, so
// Registry must be built per-module rather than once globally.
func scalarTypes(types *ir.TypeArena) intrinsics.Types {
	i8 := types.Int(8)
	return intrinsics.Types{
		I8:     i8,
		I16:    types.Int(16),
		I32:    types.Int(32),
		I64:    types.Int(64),
		Float:  types.Float(),
		Double: types.Double(),
		I8Ptr:  types.Pointer(i8, 0),
		Void:   types.Void(),
	}
}
