package ir

// Linkage mirrors the small set of LLVM linkage types the verifier needs to
// distinguish; anything not named here is "other" and always disallowed
// outside of External/Internal (spec.md §4.3).
type Linkage int

const (
	LinkageExternal Linkage = iota
	LinkageInternal
	LinkageOther
)

func (l Linkage) String() string {
	switch l {
	case LinkageExternal:
		return "external"
	case LinkageInternal:
		return "internal"
	}
	return "other"
}

// Visibility mirrors LLVM's GlobalValue visibility.
type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityHidden
	VisibilityProtected
)

func (v Visibility) String() string {
	switch v {
	case VisibilityDefault:
		return "default"
	case VisibilityHidden:
		return "hidden"
	case VisibilityProtected:
		return "protected"
	}
	return "unknown"
}

// CallingConv mirrors the calling conventions the verifier needs to
// recognize. Only CallingConvC is admissible; anything else is disallowed.
type CallingConv int

const (
	CallingConvC CallingConv = iota
	CallingConvOther
)

func (c CallingConv) String() string {
	if c == CallingConvC {
		return "ccc"
	}
	return "other"
}

// GlobalValue holds the attributes common to GlobalVariable and Function,
// the way spec.md §3's data model table describes. function is a
// self-reference set by NewFunction, used by IsIntrinsicFunction to let an
// Operand that directly names a GlobalValue ask "am I a Function marked
// intrinsic" without a type switch at every call site.
type GlobalValue struct {
	Name        string
	Linkage     Linkage
	Visibility  Visibility
	HasSection  bool
	AddrSpace   uint32
	UnnamedAddr bool

	function *Function
}

// GlobalVariable is a Module-scoped global value with an optional
// initializer.
type GlobalVariable struct {
	GlobalValue

	Type                   TypeID
	Initializer            *Constant
	HasInitializer         bool
	ThreadLocal            bool
	ExternallyInitialized  bool
}

// Alias is always rejected by the Module Checker (spec.md §4.3); it only
// needs a Name to report.
type Alias struct {
	GlobalValue
}

// Argument is one formal parameter of a Function.
type Argument struct {
	Type TypeID
	Func *Function
}

// BasicBlock is a Function-scoped, ordered sequence of Instructions.
type BasicBlock struct {
	Func         *Function
	Instructions []*Instruction
}

// Function is a GlobalValue that is either a definition (has Blocks) or a
// declaration (IsDeclaration, no Blocks), and may be a recognized IR
// intrinsic rather than user code.
type Function struct {
	GlobalValue

	FuncType TypeID
	Params   []*Argument
	Blocks   []*BasicBlock

	IsDeclaration bool
	IsIntrinsic   bool
	// IntrinsicName is the fully-qualified intrinsic name (e.g.
	// "llvm.bswap.i32"), set only when IsIntrinsic.
	IntrinsicName string
	// IntrinsicKind is the intrinsics.Kind enum value for this function,
	// stored as a plain int to avoid an import cycle (internal/intrinsics
	// already depends on internal/ir for ir.TypeID).
	IntrinsicKind int

	CallingConv   CallingConv
	GC            string
	HasAlignment  bool
	HasAttributes bool
}

// NewFunction allocates a Function and wires its GlobalValue.function
// back-reference, so IsIntrinsicFunction works without callers remembering
// to set it by hand.
func NewFunction(name string) *Function {
	f := &Function{GlobalValue: GlobalValue{Name: name}}
	f.function = f
	return f
}

// Function returns the Function this GlobalValue names, or nil for a
// GlobalVariable. Used by internal/funccheck to recover an intrinsic call's
// Kind from its callee operand's GlobalValue.
func (g *GlobalValue) Function() *Function {
	return g.function
}

// MDNode is an anonymous metadata node; NamedMDNode groups a set of MDNodes
// under a module-level name (spec.md §3).
type MDNode struct {
	ID int
}

// NamedMDNode is module-level named metadata, e.g. "llvm.dbg.cu".
type NamedMDNode struct {
	Name     string
	Operands []*MDNode
}

// MDAttachment pairs a metadata kind (e.g. "dbg") with the node attached to
// one Instruction.
type MDAttachment struct {
	Kind string
	Node *MDNode
}

// Module is the top-level IR unit the verifier consumes. Globals, Aliases,
// and Functions are visited in declaration order during the module pass
// (spec.md §5's observable-ordering invariant); NamedMetadata is visited
// last.
type Module struct {
	Types *TypeArena

	Globals       []*GlobalVariable
	Aliases       []*Alias
	Functions     []*Function
	NamedMetadata []*NamedMDNode

	// InlineAsm is the module's top-level inline-assembly string, if any.
	// A non-empty value is always disallowed (spec.md §4.3).
	InlineAsm string
}

// NewModule returns an empty Module with a fresh TypeArena.
func NewModule() *Module {
	return &Module{Types: NewTypeArena()}
}
