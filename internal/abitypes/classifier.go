// Package abitypes implements the Type Classifier (spec.md §4.1): pure
// predicates over ir.Type with no side effects, grounded on
// PNaClABITypeChecker (original_source/include/llvm/Analysis/NaCl/
// PNaClABITypeChecker.h) and generalized from LLVM's Type hierarchy to
// ir.Type's tagged-variant representation.
package abitypes

import "github.com/davidbrazdil/minsfi-llvm/internal/ir"

// ValidScalarWidths is the fixed set of admissible scalar integer widths.
var ValidScalarWidths = map[int]bool{1: true, 8: true, 16: true, 32: true, 64: true}

// IsValidScalarType reports whether t is i1/i8/i16/i32/i64, float, or
// double.
func IsValidScalarType(types *ir.TypeArena, t ir.TypeID) bool {
	ty := types.Type(t)
	switch ty.Kind {
	case ir.TypeInt:
		return ValidScalarWidths[ty.IntWidth]
	case ir.TypeFloat, ir.TypeDouble:
		return true
	default:
		return false
	}
}

// IsValidVectorType reports whether t is a vector whose element is a valid
// scalar type (i1 is permitted as a vector element, unlike everywhere
// else) and whose length belongs to the platform-agreed table, sourced from
// internal/dialect.
func IsValidVectorType(types *ir.TypeArena, t ir.TypeID, lengths VectorLengthTable) bool {
	ty := types.Type(t)
	if ty.Kind != ir.TypeVector {
		return false
	}
	if !IsValidScalarType(types, ty.Elem) {
		return false
	}
	elem := types.Type(ty.Elem)
	return lengths.Admits(elem, ty.VectorLen)
}

// VectorLengthTable reports whether a given (element type, length) pairing
// is admissible. It is supplied by internal/dialect rather than hardcoded
// here, resolving spec.md DESIGN NOTES open question #2.
type VectorLengthTable interface {
	Admits(elem ir.Type, length int) bool
}

// IsValidParamType reports whether t is a valid argument or return type: a
// valid scalar type other than i1, or a valid vector type; void is only
// valid for return types and is checked by IsValidFunctionType directly.
func IsValidParamType(types *ir.TypeArena, t ir.TypeID, lengths VectorLengthTable) bool {
	ty := types.Type(t)
	if ty.Kind == ir.TypeInt && ty.IntWidth == 1 {
		return false
	}
	return IsValidScalarType(types, t) || IsValidVectorType(types, t, lengths)
}

// IsValidFunctionType reports whether ft is non-variadic and every
// parameter and the return type is valid (return may additionally be void).
func IsValidFunctionType(types *ir.TypeArena, t ir.TypeID, lengths VectorLengthTable) bool {
	ty := types.Type(t)
	if ty.Kind != ir.TypeFunction || ty.Variadic {
		return false
	}
	if types.Type(ty.ReturnType).Kind != ir.TypeVoid && !IsValidParamType(types, ty.ReturnType, lengths) {
		return false
	}
	for _, p := range ty.ParamTypes {
		if !IsValidParamType(types, p, lengths) {
			return false
		}
	}
	return true
}

// IsValidPointerType reports whether t is address-space-0 and its pointee
// is a valid non-i1 scalar type, a valid vector type whose element is
// non-i1, or a valid function type.
func IsValidPointerType(types *ir.TypeArena, t ir.TypeID, lengths VectorLengthTable) bool {
	ty := types.Type(t)
	if ty.Kind != ir.TypePointer || ty.AddrSpace != 0 {
		return false
	}
	elem := types.Type(ty.Elem)
	switch elem.Kind {
	case ir.TypeInt:
		return IsValidScalarType(types, ty.Elem) && elem.IntWidth != 1
	case ir.TypeFloat, ir.TypeDouble:
		return true
	case ir.TypeVector:
		if !IsValidVectorType(types, ty.Elem, lengths) {
			return false
		}
		return types.Type(elem.Elem).Kind != ir.TypeInt || types.Type(elem.Elem).IntWidth != 1
	case ir.TypeFunction:
		return IsValidFunctionType(types, ty.Elem, lengths)
	default:
		return false
	}
}
