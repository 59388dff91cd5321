package ir

// ConstantKind discriminates the tagged variants of Constant. The set here
// is deliberately narrow: only the shapes the verifier ever needs to reason
// about (scalar constants, undef, and the flattened-global constant-expr
// shapes of spec.md §4.3) are represented. A general constant-expression
// evaluator is out of scope -- the verifier rejects anything it cannot
// recognize.
type ConstantKind int

const (
	ConstantInt ConstantKind = iota
	ConstantFP
	ConstantUndef
	ConstantAggregateZero
	ConstantDataArray
	// ConstantExprPtrToInt represents `ptrtoint(@Global)`.
	ConstantExprPtrToInt
	// ConstantExprAddPtrToInt represents `add(ptrtoint(@Global), Addend)`.
	ConstantExprAddPtrToInt
	// ConstantPackedStruct represents an anonymous packed struct of
	// SimpleElement fields -- the CompoundElement shape of spec.md §4.3.
	ConstantPackedStruct
)

// Constant is a tagged variant over the constant forms the verifier needs to
// classify: scalar literals, undef, and the FlattenGlobals normal form
// (array-of-i8 literals, ptrtoint-of-global plus optional addend, and packed
// anonymous structs of those).
type Constant struct {
	Kind ConstantKind
	Type TypeID

	IntVal   uint64
	DataLen  int // byte length, for ConstantDataArray / ConstantAggregateZero of [N x i8]

	// Global and Addend are set for ConstantExprPtrToInt /
	// ConstantExprAddPtrToInt.
	Global *GlobalValue
	Addend int64

	// Fields is set for ConstantPackedStruct.
	Fields []*Constant
}

// OperandKind discriminates what an instruction Operand refers to.
type OperandKind int

const (
	OperandInstruction OperandKind = iota
	OperandArgument
	OperandBlock
	OperandConstant
	OperandGlobal
	OperandMetadata
)

// Operand is a tagged reference to one value used by an Instruction: the
// result of another instruction, a function argument, a basic block (branch
// target), a Constant, a direct GlobalValue reference, or an attached
// metadata node.
type Operand struct {
	Kind OperandKind
	Type TypeID

	Inst     *Instruction
	Arg      *Argument
	Block    *BasicBlock
	Const    *Constant
	Global   *GlobalValue
	Metadata *MDNode
}

// IsIntrinsicFunction reports whether this GlobalValue is a Function marked
// as an IR intrinsic -- used by InherentPtr classification to exclude
// references to intrinsic functions themselves (spec.md §4.4.3).
func (g *GlobalValue) IsIntrinsicFunction() bool {
	return g.function != nil && g.function.IsIntrinsic
}
