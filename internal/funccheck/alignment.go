package funccheck

import (
	"math"

	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// isAllowedAlignment reports whether align is a byte alignment spec.md
// §4.4.4 admits for a load/store of type t. 0 and values above
// MaxUint64/8 are never allowed. A vector admits only its element's byte
// size, and never an i1 element. Otherwise 1 is always allowed; 4 is
// additionally allowed for float, 8 for double. Integer types admit only 1.
func (c *checker) isAllowedAlignment(t ir.Type, align uint64) bool {
	if align == 0 || align > math.MaxUint64/8 {
		return false
	}
	if t.Kind == ir.TypeVector {
		elem := c.types.Type(t.Elem)
		if elem.Kind == ir.TypeInt && elem.IntWidth == 1 {
			return false
		}
		return align == elemByteSize(elem)
	}
	switch t.Kind {
	case ir.TypeDouble:
		return align == 1 || align == 8
	case ir.TypeFloat:
		return align == 1 || align == 4
	default:
		return align == 1
	}
}

// elemByteSize returns the byte size of a vector element type, rounding
// integer widths up to the nearest byte the way the source's bit-to-byte
// helper does.
func elemByteSize(elem ir.Type) uint64 {
	switch elem.Kind {
	case ir.TypeInt:
		return uint64((elem.IntWidth + 7) / 8)
	case ir.TypeFloat:
		return 4
	case ir.TypeDouble:
		return 8
	default:
		return 0
	}
}
