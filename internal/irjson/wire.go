// Package irjson decodes a JSON serialization of an internal/ir.Module,
// the input format cmd/abiverify reads in place of a real bitcode/text IR
// parser (spec.md Non-goals exclude a parser; SPEC_FULL.md §1 DOMAIN STACK
// names JSON decoding as the stand-in input format). Grounded on
// internal/wasm/binary's two-pass decode-then-resolve shape, generalized
// from a byte-stream decoder to a tree decoder since JSON is already a tree.
package irjson

// Type is the wire form of ir.Type: a recursive descriptor rather than an
// arena index, since the wire format has no stable IDs to intern against
// until Decode builds the module's own TypeArena.
type Type struct {
	Kind string `json:"kind"` // "void","int","float","double","vector","pointer","function"

	IntWidth int `json:"intWidth,omitempty"`

	Elem      *Type `json:"elem,omitempty"`
	VectorLen int   `json:"vectorLen,omitempty"`

	AddrSpace uint32 `json:"addrSpace,omitempty"`

	ReturnType *Type   `json:"returnType,omitempty"`
	ParamTypes []*Type `json:"paramTypes,omitempty"`
	Variadic   bool    `json:"variadic,omitempty"`
}

// Constant is the wire form of ir.Constant. Global is a name resolved
// against the module's global symbol table in a second pass, the way
// ConstantExprPtrToInt's Global pointer is populated after every
// GlobalVariable/Function has been allocated.
type Constant struct {
	Kind string `json:"kind"` // "int","fp","undef","aggregateZero","dataArray","ptrtoint","addptrtoint","packedStruct"
	Type *Type  `json:"type,omitempty"`

	IntVal  uint64 `json:"intVal,omitempty"`
	DataLen int    `json:"dataLen,omitempty"`

	Global string `json:"global,omitempty"`
	Addend int64  `json:"addend,omitempty"`

	Fields []*Constant `json:"fields,omitempty"`
}

// Operand is the wire form of ir.Operand. Ref names an instruction
// ("%name" within the enclosing function), an argument ("@argname"), a
// block ("^blockname"), or a global ("@globalname") depending on Kind;
// Const is set only when Kind == "constant".
type Operand struct {
	Kind  string    `json:"kind"` // "instruction","argument","block","constant","global","metadata"
	Ref   string    `json:"ref,omitempty"`
	Const *Constant `json:"const,omitempty"`
}

// MDAttachment is the wire form of ir.MDAttachment.
type MDAttachment struct {
	Kind string `json:"kind"`
}

// Instruction is the wire form of ir.Instruction. Name is the identifier
// other instructions' Operand.Ref fields use to refer back to this result;
// it need not be emitted for instructions nothing else references.
type Instruction struct {
	Name     string     `json:"name,omitempty"`
	Opcode   string     `json:"opcode"`
	Type     *Type      `json:"type,omitempty"`
	Operands []*Operand `json:"operands,omitempty"`

	Metadata []*MDAttachment `json:"metadata,omitempty"`

	NUW   bool `json:"nuw,omitempty"`
	NSW   bool `json:"nsw,omitempty"`
	Exact bool `json:"exact,omitempty"`

	Volatile  bool   `json:"volatile,omitempty"`
	Atomic    bool   `json:"atomic,omitempty"`
	Alignment uint64 `json:"alignment,omitempty"`

	InlineAsm       bool   `json:"inlineAsm,omitempty"`
	HasAttributes   bool   `json:"hasAttributes,omitempty"`
	CallingConv     string `json:"callingConv,omitempty"`
	IsIntrinsicCall bool   `json:"isIntrinsicCall,omitempty"`
	IntrinsicName   string `json:"intrinsicName,omitempty"`

	AllocatedType *Type `json:"allocatedType,omitempty"`

	SwitchCases []*Operand `json:"switchCases,omitempty"`
}

// BasicBlock is the wire form of ir.BasicBlock, named so branch/switch/phi
// operands elsewhere in the function can target it by Ref.
type BasicBlock struct {
	Name         string         `json:"name"`
	Instructions []*Instruction `json:"instructions,omitempty"`
}

// Argument is the wire form of ir.Argument.
type Argument struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// Function is the wire form of ir.Function.
type Function struct {
	Name        string `json:"name"`
	Linkage     string `json:"linkage,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	HasSection  bool   `json:"hasSection,omitempty"`
	AddrSpace   uint32 `json:"addrSpace,omitempty"`
	UnnamedAddr bool   `json:"unnamedAddr,omitempty"`

	ReturnType *Type       `json:"returnType"`
	Params     []*Argument `json:"params,omitempty"`
	Variadic   bool        `json:"variadic,omitempty"`
	Blocks     []*BasicBlock `json:"blocks,omitempty"`

	IsDeclaration bool   `json:"isDeclaration,omitempty"`
	IsIntrinsic   bool   `json:"isIntrinsic,omitempty"`
	IntrinsicName string `json:"intrinsicName,omitempty"`
	IntrinsicKind int    `json:"intrinsicKind,omitempty"`

	CallingConv   string `json:"callingConv,omitempty"`
	GC            string `json:"gc,omitempty"`
	HasAlignment  bool   `json:"hasAlignment,omitempty"`
	HasAttributes bool   `json:"hasAttributes,omitempty"`
}

// GlobalVariable is the wire form of ir.GlobalVariable.
type GlobalVariable struct {
	Name        string `json:"name"`
	Linkage     string `json:"linkage,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	HasSection  bool   `json:"hasSection,omitempty"`
	AddrSpace   uint32 `json:"addrSpace,omitempty"`
	UnnamedAddr bool   `json:"unnamedAddr,omitempty"`

	Type                  *Type     `json:"type"`
	Initializer           *Constant `json:"initializer,omitempty"`
	HasInitializer        bool      `json:"hasInitializer,omitempty"`
	ThreadLocal           bool      `json:"threadLocal,omitempty"`
	ExternallyInitialized bool      `json:"externallyInitialized,omitempty"`
}

// Alias is the wire form of ir.Alias; the Module Checker rejects every
// alias outright, so only Name is meaningful.
type Alias struct {
	Name string `json:"name"`
}

// NamedMDNode is the wire form of ir.NamedMDNode; only Name is meaningful
// to the checker.
type NamedMDNode struct {
	Name string `json:"name"`
}

// Module is the top-level wire document cmd/abiverify reads.
type Module struct {
	Globals       []*GlobalVariable `json:"globals,omitempty"`
	Aliases       []*Alias          `json:"aliases,omitempty"`
	Functions     []*Function       `json:"functions,omitempty"`
	NamedMetadata []*NamedMDNode    `json:"namedMetadata,omitempty"`
	InlineAsm     string            `json:"inlineAsm,omitempty"`
}
