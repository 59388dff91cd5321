// Package dialect resolves the configurable, IR-dialect-specific tables that
// spec.md leaves as "a fixed table populated from the IR dialect
// specification" (§4.1) rather than hardcoding them into internal/abitypes.
// Grounded on SeleniaProject-Orizon's use of github.com/Masterminds/semver/v3
// to gate compiler-toolchain behavior by a version constraint.
package dialect

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// Table bundles the dialect-specific admissibility data the verifier needs
// beyond the fixed rules of spec.md §4.
type Table struct {
	// Version is the resolved dialect version this Table was built for.
	Version *semver.Version

	// vectorLengths maps an element bit-width to the admissible vector
	// lengths for that width.
	vectorLengths map[int][]int
}

// Admits implements abitypes.VectorLengthTable.
func (t *Table) Admits(elem ir.Type, length int) bool {
	width := elemBitWidth(elem)
	for _, l := range t.vectorLengths[width] {
		if l == length {
			return true
		}
	}
	return false
}

func elemBitWidth(elem ir.Type) int {
	switch elem.Kind {
	case ir.TypeInt:
		return elem.IntWidth
	case ir.TypeFloat:
		return 32
	case ir.TypeDouble:
		return 64
	default:
		return 0
	}
}

// v1Constraint matches the one dialect this verifier implements: the
// element-width-keyed {4,8,16} table implied by spec.md §4.1. A later
// dialect major version would get its own Table and constraint here without
// touching internal/abitypes, resolving spec.md DESIGN NOTES open question
// #2.
var v1Constraint = mustConstraint("^1.0.0")

func mustConstraint(c string) *semver.Constraints {
	con, err := semver.NewConstraint(c)
	if err != nil {
		panic(fmt.Errorf("dialect: invalid built-in constraint %q: %w", c, err))
	}
	return con
}

// Resolve returns the Table for the given dialect version string. An
// unmatched version is a configuration error, not a silently-applied
// default -- spec.md's subset membership decision must not vary by
// accident.
func Resolve(version string) (*Table, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("dialect: invalid version %q: %w", version, err)
	}
	if v1Constraint.Check(v) {
		return &Table{
			Version: v,
			vectorLengths: map[int][]int{
				8:  {4, 8, 16},
				16: {4, 8, 16},
				32: {4, 8, 16},
				64: {4, 8, 16},
				1:  {4, 8, 16},
			},
		}, nil
	}
	return nil, fmt.Errorf("dialect: no table registered for version %s", v)
}

// DefaultVersion is the dialect version used when Config does not specify
// one.
const DefaultVersion = "1.0.0"
