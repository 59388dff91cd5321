// Package ir is the in-memory representation of the portable-executable IR
// dialect that the verifier accepts as input. The verifier never constructs
// this from bytes itself -- that is the job of an external loader -- but
// tests and internal/irjson (the loader cmd/abiverify uses) build Modules
// directly.
package ir

import "fmt"

// TypeID is a stable index into a Module's type arena. Types reference other
// types (pointer pointee, function params/return, vector element), so they
// are interned once per Module and referred to by index rather than by
// pointer, the way internal/wasm.Module interns FunctionType under
// TypeSection and refers to it by Index.
type TypeID int

// TypeKind discriminates the tagged variants of Type.
type TypeKind int

const (
	TypeVoid TypeKind = iota
	TypeInt
	TypeFloat
	TypeDouble
	TypeVector
	TypePointer
	TypeFunction
	TypeAggregate
)

func (k TypeKind) String() string {
	switch k {
	case TypeVoid:
		return "void"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeVector:
		return "vector"
	case TypePointer:
		return "pointer"
	case TypeFunction:
		return "function"
	case TypeAggregate:
		return "aggregate"
	}
	return "unknown"
}

// Type is a tagged variant over the type forms the IR dialect admits. Not
// every Type built by a loader lies in the verifier's accepted subset --
// that is exactly what internal/abitypes decides.
type Type struct {
	Kind TypeKind

	// IntWidth is set when Kind == TypeInt. Valid widths in the wild include
	// but are not limited to {1, 8, 16, 32, 64}.
	IntWidth int

	// Elem is set when Kind == TypeVector or TypePointer.
	Elem TypeID

	// VectorLen is set when Kind == TypeVector.
	VectorLen int

	// AddrSpace is set when Kind == TypePointer.
	AddrSpace uint32

	// ReturnType and ParamTypes are set when Kind == TypeFunction.
	ReturnType TypeID
	ParamTypes []TypeID
	Variadic   bool
}

// key returns a string that uniquely identifies the structural shape of a
// Type, used to dedup the arena the way a real type system interns types.
func (t Type) key() string {
	switch t.Kind {
	case TypeInt:
		return fmt.Sprintf("i%d", t.IntWidth)
	case TypeVector:
		return fmt.Sprintf("v%d:%d", t.VectorLen, t.Elem)
	case TypePointer:
		return fmt.Sprintf("p%d:%d", t.AddrSpace, t.Elem)
	case TypeFunction:
		return fmt.Sprintf("f%d:%v:%v", t.ReturnType, t.ParamTypes, t.Variadic)
	default:
		return t.Kind.String()
	}
}

// TypeArena interns Types for one Module, handing out stable TypeIDs.
type TypeArena struct {
	types  []Type
	lookup map[string]TypeID
}

// NewTypeArena returns an empty arena.
func NewTypeArena() *TypeArena {
	return &TypeArena{lookup: map[string]TypeID{}}
}

// Intern returns the stable TypeID for t, reusing an existing entry of the
// same shape when one exists.
func (a *TypeArena) Intern(t Type) TypeID {
	k := t.key()
	if id, ok := a.lookup[k]; ok {
		return id
	}
	id := TypeID(len(a.types))
	a.types = append(a.types, t)
	a.lookup[k] = id
	return id
}

// Type looks up a previously interned Type by ID. Panics on an out-of-range
// ID: that is a bug in the loader/builder, not a verification outcome.
func (a *TypeArena) Type(id TypeID) Type {
	if int(id) < 0 || int(id) >= len(a.types) {
		panic(fmt.Errorf("ir: type id %d out of range", id))
	}
	return a.types[id]
}

// Convenience constructors mirroring the fixed scalar set spec.md §4.1
// builds on.
func (a *TypeArena) Void() TypeID               { return a.Intern(Type{Kind: TypeVoid}) }
func (a *TypeArena) Int(width int) TypeID       { return a.Intern(Type{Kind: TypeInt, IntWidth: width}) }
func (a *TypeArena) Float() TypeID              { return a.Intern(Type{Kind: TypeFloat}) }
func (a *TypeArena) Double() TypeID             { return a.Intern(Type{Kind: TypeDouble}) }
func (a *TypeArena) Aggregate() TypeID          { return a.Intern(Type{Kind: TypeAggregate}) }

func (a *TypeArena) Vector(elem TypeID, length int) TypeID {
	return a.Intern(Type{Kind: TypeVector, Elem: elem, VectorLen: length})
}

func (a *TypeArena) Pointer(elem TypeID, addrSpace uint32) TypeID {
	return a.Intern(Type{Kind: TypePointer, Elem: elem, AddrSpace: addrSpace})
}

func (a *TypeArena) Function(ret TypeID, params ...TypeID) TypeID {
	return a.Intern(Type{Kind: TypeFunction, ReturnType: ret, ParamTypes: params})
}

// TypeName renders a Type for diagnostics, analogous to
// PNaClABITypeChecker::getTypeName / internal/wasm.ValueTypeName.
func (a *TypeArena) TypeName(id TypeID) string {
	t := a.Type(id)
	switch t.Kind {
	case TypeVoid:
		return "void"
	case TypeInt:
		return fmt.Sprintf("i%d", t.IntWidth)
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeVector:
		return fmt.Sprintf("<%d x %s>", t.VectorLen, a.TypeName(t.Elem))
	case TypePointer:
		return a.TypeName(t.Elem) + "*"
	case TypeFunction:
		return "function"
	case TypeAggregate:
		return "aggregate"
	}
	return "unknown"
}
