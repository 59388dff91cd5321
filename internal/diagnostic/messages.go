package diagnostic

// Stable message fragments anchored by the test suite (spec.md §7, §8).
// Callers format these with fmt.Sprintf via Reporter.Add; keeping the
// literal fragments as constants means a typo in a call site fails to
// compile-match a test's substring check loudly instead of silently, the
// way internal/wasm/binary names its section-id magic strings as constants.
const (
	MsgBadInstructionOpcode   = "bad instruction opcode"
	MsgUnknownInstructionOpcode = "unknown instruction opcode"

	MsgBadPointer              = "bad pointer"
	MsgBadOperand              = "bad operand"
	MsgOperandNotInherentPtr   = "operand not InherentPtr"
	MsgBadFunctionCalleeOperand = "bad function callee operand"
	MsgBadIntrinsicOperand     = "bad intrinsic operand"
	MsgBadSwitchCondition      = "bad switch condition"
	MsgBadSwitchCase           = "bad switch case"

	MsgBadAlignment               = "bad alignment"
	MsgNonI32IntToPtr             = "non-i32 inttoptr"
	MsgNonI32PtrToInt             = "non-i32 ptrtoint"
	MsgArithmeticOnI1             = "arithmetic on i1"
	MsgArithmeticOnVectorOfI1     = "arithmetic on vector of i1"
	MsgNonConstantVectorIndex     = "non-constant vector insert/extract index"
	MsgVectorIndexOutOfRange      = "vector insert/extract index out of range"

	MsgInlineAssembly            = "inline assembly"
	MsgBadCallAttributes         = "bad call attributes"
	MsgBadCallingConv            = "bad calling convention"
	MsgInvalidMemoryOrder        = "invalid memory order"
	MsgInvalidAtomicRMWOperation = "invalid atomicRMW operation"
	MsgInvalidAtomicLockFreeByteSize = "invalid atomic lock-free byte size"
	MsgAtomicLoad  = "atomic load"
	MsgAtomicStore = "atomic store"
	MsgVolatileLoad  = "volatile load"
	MsgVolatileStore = "volatile store"

	MsgHasNUWAttribute   = `has "nuw" attribute`
	MsgHasNSWAttribute   = `has "nsw" attribute`
	MsgHasExactAttribute = `has "exact" attribute`

	MsgBadResultType = "bad result type"

	MsgModuleMultipleEntryPoints = "Module has multiple entry points (disallowed)"
	MsgModuleNoEntryPoint        = "Module has no entry point (disallowed)"
	MsgNotValidExternalSymbol    = "is not a valid external symbol (disallowed)"
	MsgIsAnAlias                 = "is an alias (disallowed)"
	MsgDisallowedLinkageType     = "has disallowed linkage type"
	MsgDisallowedVisibility      = "has disallowed visibility"
	MsgDisallowedSectionAttr     = `has disallowed "section" attribute`
	MsgDisallowedAddrSpaceAttr   = "has addrspace attribute (disallowed)"
	MsgDisallowedUnnamedAddrAttr = `has disallowed "unnamed_addr" attribute`
	MsgDisallowedThreadLocalAttr = `has disallowed "thread_local" attribute`
	MsgDisallowedExternallyInitAttr = `has disallowed "externally_initialized" attribute`
	MsgDisallowedGCAttr          = `has disallowed "gc" attribute`
	MsgDisallowedAlignAttr       = `has disallowed "align" attribute`
	MsgDisallowedAttributes      = "has disallowed attributes"
	MsgDisallowedFunctionType    = "has disallowed type"
	MsgDeclaredNotDefined        = "is declared but not defined (disallowed)"
	MsgDisallowedIntrinsic       = "is a disallowed LLVM intrinsic"
	MsgNonFlattenedInitializer   = "has non-flattened initializer (disallowed)"
	MsgNoInitializer             = "has no initializer (disallowed)"
	MsgTopLevelInlineAsm         = "Module contains disallowed top-level inline assembly"
	MsgDisallowedNamedMetadata   = "is disallowed"
)
