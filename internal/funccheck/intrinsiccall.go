package funccheck

import (
	"github.com/davidbrazdil/minsfi-llvm/internal/diagnostic"
	"github.com/davidbrazdil/minsfi-llvm/internal/intrinsics"
	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// memoryOrderOperandIndices and rmwOperandIndices give the positional
// argument index (within the intrinsic call's non-callee operands) that
// carries a memory-order or rmw-operation enum constant, mirroring how the
// source's AtomicIntrinsics table marks each parameter's ParamType as Mem
// or RMW (spec.md §4.4.5).
func memoryOrderOperandIndices(k intrinsics.Kind) []int {
	switch k {
	case intrinsics.KindAtomicLoad:
		return []int{1}
	case intrinsics.KindAtomicStore:
		return []int{2}
	case intrinsics.KindAtomicRMW:
		return []int{3}
	case intrinsics.KindAtomicCmpxchg:
		return []int{3, 4}
	case intrinsics.KindAtomicFence:
		return []int{0}
	default:
		return nil
	}
}

func rmwOperandIndices(k intrinsics.Kind) []int {
	if k == intrinsics.KindAtomicRMW {
		return []int{0}
	}
	return nil
}

// checkIntrinsicCall implements spec.md §4.4.5: an intrinsic call's
// arguments must each be a valid scalar/vector operand, a NormalizedPtr, or
// a metadata node; memory intrinsics carry a fixed alignment constant;
// atomics carry admitted memory-order/rmw-operation constants; is_lock_free
// carries an admitted byte-size constant and an integer result. Returns the
// diagnostic message fragment to report, or "" if the call is admissible.
func (c *checker) checkIntrinsicCall(f *ir.Function, inst *ir.Instruction, kind intrinsics.Kind) string {
	args := inst.Operands[:len(inst.Operands)-1]

	for _, arg := range args {
		if !(c.isValidScalarOperand(arg) || c.isValidVectorOperand(arg) || c.isNormalizedPtr(arg) || arg.Kind == ir.OperandMetadata) {
			return diagnostic.MsgBadIntrinsicOperand
		}
	}

	if kind.IsMemIntrinsic() {
		if len(args) < 4 || !isValidScalarConstantInt(args[3]) || args[3].Const.IntVal != 1 {
			return diagnostic.MsgBadAlignment
		}
	}

	if kind.IsAtomic() {
		for _, idx := range memoryOrderOperandIndices(kind) {
			if idx >= len(args) || !isValidScalarConstantInt(args[idx]) || !intrinsics.IsAdmittedMemoryOrder(int64(args[idx].Const.IntVal)) {
				return diagnostic.MsgInvalidMemoryOrder
			}
		}
		for _, idx := range rmwOperandIndices(kind) {
			if idx >= len(args) || !isValidScalarConstantInt(args[idx]) || !intrinsics.IsAdmittedRMWOperation(int64(args[idx].Const.IntVal)) {
				return diagnostic.MsgInvalidAtomicRMWOperation
			}
		}
	}

	if kind == intrinsics.KindAtomicIsLockFree {
		if len(args) < 1 || !isValidScalarConstantInt(args[0]) || !intrinsics.AdmittedLockFreeByteSizes[int64(args[0].Const.IntVal)] {
			return diagnostic.MsgInvalidAtomicLockFreeByteSize
		}
	}

	return ""
}
