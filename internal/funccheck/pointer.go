package funccheck

import (
	"github.com/davidbrazdil/minsfi-llvm/internal/abitypes"
	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// isInherentPtr implements spec.md §4.4.3: a value whose pointer identity is
// intrinsic to its definition -- a stack allocation, a non-intrinsic global,
// or the result of a call to an intrinsic that returns a pointer.
// InherentPtr deliberately excludes references to intrinsic functions
// themselves, forbidding taking their address.
func (c *checker) isInherentPtr(op ir.Operand) bool {
	switch op.Kind {
	case ir.OperandInstruction:
		if op.Inst.Opcode == ir.OpAlloca {
			return true
		}
		if op.Inst.Opcode == ir.OpCall && op.Inst.IsIntrinsicCall {
			return c.types.Type(op.Inst.Type).Kind == ir.TypePointer
		}
		return false
	case ir.OperandGlobal:
		return !op.Global.IsIntrinsicFunction()
	default:
		return false
	}
}

// isNormalizedPtr implements spec.md §4.4.3: a value that may legally stand
// where a typed pointer is required by an instruction -- a valid pointer
// type AND one of InherentPtr, an inttoptr result, or a bitcast result.
// Constant-expressions, null, and undef are deliberately excluded, forcing
// pointer arithmetic/casting to appear as explicit instructions.
func (c *checker) isNormalizedPtr(op ir.Operand) bool {
	if !abitypes.IsValidPointerType(c.types, op.Type, c.opts.Lengths) {
		return false
	}
	if c.isInherentPtr(op) {
		return true
	}
	if op.Kind == ir.OperandInstruction {
		switch op.Inst.Opcode {
		case ir.OpIntToPtr, ir.OpBitCast:
			return true
		}
	}
	return false
}
