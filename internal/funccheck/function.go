// Package funccheck implements the Function Checker (spec.md §4.4): walks
// each defined function's basic blocks and instructions, checking opcode
// admissibility, operand forms, pointer normalization, alignment, atomic/
// intrinsic parameter constants, and result type. Grounded on
// PNaClABIVerifyFunctions::checkInstruction (original_source/lib/Analysis/
// NaCl/PNaClABIVerifyFunctions.cpp), line-for-line in control flow.
package funccheck

import (
	"github.com/davidbrazdil/minsfi-llvm/internal/abitypes"
	"github.com/davidbrazdil/minsfi-llvm/internal/diagnostic"
	"github.com/davidbrazdil/minsfi-llvm/internal/intrinsics"
	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// Options bundles the configuration and dialect-resolved tables the
// function pass needs, constructed the same way as modcheck.Options by the
// root package's Verifier.
type Options struct {
	Lengths            abitypes.VectorLengthTable
	Intrinsics         *intrinsics.Registry
	AllowDebugMetadata bool
}

type checker struct {
	types    *ir.TypeArena
	opts     Options
	reporter *diagnostic.Reporter
}

// Check runs the function pass over f, recording diagnostics in basic-block
// then instruction order (spec.md §5). Declarations (no Blocks) and
// intrinsic functions are not walked -- there is no body to check.
func Check(types *ir.TypeArena, f *ir.Function, opts Options, r *diagnostic.Reporter) {
	if f.IsDeclaration || f.IsIntrinsic {
		return
	}
	c := &checker{types: types, opts: opts, reporter: r}
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			c.checkInstruction(f, inst)
		}
	}
}

// checkInstruction implements the four-phase per-instruction check of
// spec.md §4.4: (a) opcode classification, (b) opcode-specific operand and
// pointer checks, (c) generic operand-shape check, (d) result-type check
// and attached-metadata check.
func (c *checker) checkInstruction(f *ir.Function, inst *ir.Instruction) {
	errMsg, badResult, skipRemaining := c.checkOpcodeAndOperands(f, inst)
	if errMsg == "" && !skipRemaining {
		if !c.isValidResult(inst) {
			errMsg = diagnostic.MsgBadResultType
			badResult = true
		}
	}
	if errMsg != "" {
		if badResult {
			c.reporter.Add("Function %s disallowed: %s: %s", f.Name, errMsg, c.types.TypeName(inst.Type))
		} else {
			c.reporter.Add("Function %s disallowed: %s", f.Name, errMsg)
		}
		return
	}
	c.checkAttachedMetadata(f, inst)
}

// checkOpcodeAndOperands implements phases (a)-(c). skipRemaining reports
// whether the instruction (an intrinsic call or a switch) already returned
// "allowed" from within its own special-cased validation, bypassing the
// generic operand check and the caller's result-type check (spec.md §4.4.2,
// "return immediately from the instruction check"); the attached-metadata
// check still runs.
func (c *checker) checkOpcodeAndOperands(f *ir.Function, inst *ir.Instruction) (errMsg string, badResult, skipRemaining bool) {
	ptrOperandIndex := -1

	switch inst.Opcode {
	case ir.OpGetElementPtr, ir.OpVAArg, ir.OpInvoke, ir.OpLandingPad, ir.OpResume,
		ir.OpIndirectBr, ir.OpShuffleVector, ir.OpExtractValue, ir.OpInsertValue,
		ir.OpAtomicCmpXchg, ir.OpAtomicRMW, ir.OpFence:
		return diagnostic.MsgBadInstructionOpcode, false, false
	case ir.OpUnknown:
		return diagnostic.MsgUnknownInstructionOpcode, false, false

	case ir.OpRet, ir.OpBr, ir.OpUnreachable,
		ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv, ir.OpFRem,
		ir.OpAnd, ir.OpOr, ir.OpXor,
		ir.OpTrunc, ir.OpZExt, ir.OpSExt, ir.OpFPTrunc, ir.OpFPExt, ir.OpFPToUI, ir.OpFPToSI, ir.OpUIToFP, ir.OpSIToFP,
		ir.OpFCmp, ir.OpPHI, ir.OpSelect:
		// No opcode-specific constraint.

	case ir.OpICmp, ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpUDiv, ir.OpSDiv, ir.OpURem, ir.OpSRem,
		ir.OpShl, ir.OpLShr, ir.OpAShr:
		if msg := c.checkArithmeticOperandType(inst); msg != "" {
			return msg, false, false
		}

	case ir.OpExtractElement, ir.OpInsertElement:
		if msg := c.checkVectorIndex(inst); msg != "" {
			return msg, false, false
		}

	case ir.OpLoad:
		ptrOperandIndex = inst.PointerOperandIndex()
		if inst.Atomic {
			return diagnostic.MsgAtomicLoad, false, false
		}
		if inst.Volatile {
			return diagnostic.MsgVolatileLoad, false, false
		}
		if !c.isNormalizedPtr(inst.Operands[ptrOperandIndex]) {
			return diagnostic.MsgBadPointer, false, false
		}
		if !c.isAllowedAlignment(c.types.Type(inst.Type), inst.Alignment) {
			return diagnostic.MsgBadAlignment, false, false
		}

	case ir.OpStore:
		ptrOperandIndex = inst.PointerOperandIndex()
		if inst.Atomic {
			return diagnostic.MsgAtomicStore, false, false
		}
		if inst.Volatile {
			return diagnostic.MsgVolatileStore, false, false
		}
		if !c.isNormalizedPtr(inst.Operands[ptrOperandIndex]) {
			return diagnostic.MsgBadPointer, false, false
		}
		if !c.isAllowedAlignment(c.types.Type(inst.Operands[0].Type), inst.Alignment) {
			return diagnostic.MsgBadAlignment, false, false
		}

	case ir.OpBitCast:
		if c.types.Type(inst.Type).Kind == ir.TypePointer {
			ptrOperandIndex = 0
			if !c.isInherentPtr(inst.Operands[0]) {
				return diagnostic.MsgOperandNotInherentPtr, false, false
			}
		}

	case ir.OpIntToPtr:
		if c.types.Type(inst.Operands[0].Type).Kind != ir.TypeInt || c.types.Type(inst.Operands[0].Type).IntWidth != 32 {
			return diagnostic.MsgNonI32IntToPtr, false, false
		}

	case ir.OpPtrToInt:
		ptrOperandIndex = 0
		if !c.isInherentPtr(inst.Operands[0]) {
			return diagnostic.MsgOperandNotInherentPtr, false, false
		}
		if c.types.Type(inst.Type).Kind != ir.TypeInt || c.types.Type(inst.Type).IntWidth != 32 {
			return diagnostic.MsgNonI32PtrToInt, false, false
		}

	case ir.OpAlloca:
		allocTy := c.types.Type(inst.AllocatedType)
		if allocTy.Kind != ir.TypeInt || allocTy.IntWidth != 8 {
			return diagnostic.MsgBadOperand, false, false
		}
		sizeTy := c.types.Type(inst.Operands[0].Type)
		if sizeTy.Kind != ir.TypeInt || sizeTy.IntWidth != 32 {
			return diagnostic.MsgBadOperand, false, false
		}

	case ir.OpCall:
		if inst.InlineAsm {
			return diagnostic.MsgInlineAssembly, false, false
		}
		if inst.HasAttributes {
			return diagnostic.MsgBadCallAttributes, false, false
		}
		if inst.CallingConv != ir.CallingConvC {
			return diagnostic.MsgBadCallingConv, false, false
		}

		if inst.IsIntrinsicCall {
			callee := inst.Operands[len(inst.Operands)-1]
			var kind intrinsics.Kind
			if callee.Kind == ir.OperandGlobal && callee.Global.Function() != nil {
				kind = intrinsics.Kind(callee.Global.Function().IntrinsicKind)
			}
			if msg := c.checkIntrinsicCall(f, inst, kind); msg != "" {
				return msg, false, false
			}
			return "", false, true
		}

		calleeIdx := len(inst.Operands) - 1
		if !c.isNormalizedPtr(inst.Operands[calleeIdx]) {
			return diagnostic.MsgBadFunctionCalleeOperand, false, false
		}
		ptrOperandIndex = calleeIdx

	case ir.OpSwitch:
		cond := inst.Operands[0]
		if !c.isValidScalarOperand(cond) {
			return diagnostic.MsgBadSwitchCondition, false, false
		}
		condTy := c.types.Type(cond.Type)
		if condTy.Kind != ir.TypeInt || condTy.IntWidth < 8 {
			return diagnostic.MsgBadSwitchCondition, false, false
		}
		for _, caseOp := range inst.SwitchCases {
			if !c.isValidScalarOperand(caseOp) {
				return diagnostic.MsgBadSwitchCase, false, false
			}
		}
		return "", false, true

	default:
		return diagnostic.MsgUnknownInstructionOpcode, false, false
	}

	for i, op := range inst.Operands {
		if i == ptrOperandIndex {
			continue
		}
		if !c.isGenericOperand(op) {
			return diagnostic.MsgBadOperand, false, false
		}
	}

	if msg := c.checkArithmeticFlags(inst); msg != "" {
		return msg, false, false
	}

	return "", false, false
}

// checkArithmeticOperandType implements spec.md §4.4.2's icmp/integer-
// arithmetic rule: the operand type must not be i1, and must not be a
// vector of i1.
func (c *checker) checkArithmeticOperandType(inst *ir.Instruction) string {
	ty := c.types.Type(inst.Operands[0].Type)
	if ty.Kind == ir.TypeInt && ty.IntWidth == 1 {
		return diagnostic.MsgArithmeticOnI1
	}
	if ty.Kind == ir.TypeVector {
		elem := c.types.Type(ty.Elem)
		if elem.Kind == ir.TypeInt && elem.IntWidth == 1 {
			return diagnostic.MsgArithmeticOnVectorOfI1
		}
	}
	return ""
}

// checkVectorIndex implements spec.md §4.4.2's extractelement/insertelement
// rule: the index operand (operand 1 for extractelement, operand 2 for
// insertelement) must be a compile-time integer constant strictly within
// [0, vector_length).
func (c *checker) checkVectorIndex(inst *ir.Instruction) string {
	idxPos := 1
	if inst.Opcode == ir.OpInsertElement {
		idxPos = 2
	}
	idx := inst.Operands[idxPos]
	if !isValidScalarConstantInt(idx) {
		return diagnostic.MsgNonConstantVectorIndex
	}
	vecTy := c.types.Type(inst.Operands[0].Type)
	if idx.Const.IntVal >= uint64(vecTy.VectorLen) {
		return diagnostic.MsgVectorIndexOutOfRange
	}
	return ""
}

// checkArithmeticFlags implements spec.md §4.4.7: nuw/nsw are forbidden on
// overflowing binary operators; exact is forbidden on udiv/sdiv/lshr/ashr.
func (c *checker) checkArithmeticFlags(inst *ir.Instruction) string {
	if inst.Opcode.IsOverflowingBinaryOp() {
		if inst.NUW {
			return diagnostic.MsgHasNUWAttribute
		}
		if inst.NSW {
			return diagnostic.MsgHasNSWAttribute
		}
	}
	if inst.Opcode.IsExactBinaryOp() && inst.Exact {
		return diagnostic.MsgHasExactAttribute
	}
	return ""
}

// isValidResult implements spec.md §4.4.8: the instruction's result type
// must be a valid scalar type, a valid vector type, a valid pointer type
// with the instruction itself a NormalizedPtr (alloca, bitcast, inttoptr),
// or the instruction must be an alloca -- preserved verbatim per DESIGN
// NOTES open question #4 even though it overlaps the pointer-result arm.
func (c *checker) isValidResult(inst *ir.Instruction) bool {
	// void is not itself a "valid scalar type" (spec.md §4.1), but every
	// terminator and every void-returning call has this result type --
	// the source's result check only ever runs on instructions that
	// reached this point, all of which are reachable with a void result,
	// so void is accepted here rather than forcing every void-typed
	// instruction to separately qualify as a NormalizedPtr or alloca.
	if c.types.Type(inst.Type).Kind == ir.TypeVoid {
		return true
	}
	if abitypes.IsValidScalarType(c.types, inst.Type) || abitypes.IsValidVectorType(c.types, inst.Type, c.opts.Lengths) {
		return true
	}
	selfOperand := ir.Operand{Kind: ir.OperandInstruction, Inst: inst, Type: inst.Type}
	if c.isNormalizedPtr(selfOperand) {
		return true
	}
	return inst.Opcode == ir.OpAlloca
}

// checkAttachedMetadata implements spec.md §4.4.9: admit only the "dbg"
// metadata kind, and only when the debug-metadata flag is set.
func (c *checker) checkAttachedMetadata(f *ir.Function, inst *ir.Instruction) {
	for _, md := range inst.Metadata {
		if md.Kind != "dbg" || !c.opts.AllowDebugMetadata {
			c.reporter.Add("Function %s disallowed metadata: %s", f.Name, md.Kind)
		}
	}
}
