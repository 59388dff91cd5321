package funccheck

import (
	"github.com/davidbrazdil/minsfi-llvm/internal/abitypes"
	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// isValidScalarOperand implements the "valid scalar operand" predicate of
// spec.md §4.4.6: any instruction result, any function argument, any basic
// block (a branch target), or one of {ConstantInt, ConstantFP, undef} whose
// type is a valid scalar type. Constant-expressions are excluded.
func (c *checker) isValidScalarOperand(op ir.Operand) bool {
	switch op.Kind {
	case ir.OperandInstruction, ir.OperandArgument, ir.OperandBlock:
		return true
	case ir.OperandConstant:
		switch op.Const.Kind {
		case ir.ConstantInt, ir.ConstantFP, ir.ConstantUndef:
			return abitypes.IsValidScalarType(c.types, op.Type)
		}
		return false
	default:
		return false
	}
}

// isValidVectorOperand implements the "valid vector operand" predicate of
// spec.md §4.4.6: any instruction result, any function argument, or an
// undef whose type is a valid vector type. Constant vectors other than
// undef are forbidden on instructions -- they must be materialized from
// constant globals.
func (c *checker) isValidVectorOperand(op ir.Operand) bool {
	switch op.Kind {
	case ir.OperandInstruction, ir.OperandArgument:
		return true
	case ir.OperandConstant:
		return op.Const.Kind == ir.ConstantUndef && abitypes.IsValidVectorType(c.types, op.Type, c.opts.Lengths)
	default:
		return false
	}
}

// isGenericOperand reports whether op passes the generic operand-shape
// check of spec.md §4.4.6: valid scalar operand or valid vector operand.
func (c *checker) isGenericOperand(op ir.Operand) bool {
	return c.isValidScalarOperand(op) || c.isValidVectorOperand(op)
}

// isValidScalarConstantInt reports whether op is a compile-time integer
// constant, used by the switch-case and intrinsic memory-order/rmw-operand
// checks of spec.md §4.4.2/§4.4.5.
func isValidScalarConstantInt(op ir.Operand) bool {
	return op.Kind == ir.OperandConstant && op.Const != nil && op.Const.Kind == ir.ConstantInt
}
