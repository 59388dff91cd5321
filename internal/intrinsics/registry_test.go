package intrinsics

import (
	"testing"

	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

func testTypes() (Types, *ir.TypeArena) {
	a := ir.NewTypeArena()
	t := Types{
		I8:     a.Int(8),
		I16:    a.Int(16),
		I32:    a.Int(32),
		I64:    a.Int(64),
		Float:  a.Float(),
		Double: a.Double(),
		Void:   a.Void(),
	}
	t.I8Ptr = a.Pointer(t.I8, 0)
	return t, a
}

func TestBswapOverloads(t *testing.T) {
	types, _ := testTypes()
	r := NewRegistry(types, false)

	for _, w := range []ir.TypeID{types.I16, types.I32, types.I64} {
		if !r.IsAllowed(KindBswap, Signature{Params: []ir.TypeID{w}, Return: w}) {
			t.Fatalf("expected bswap overload for width %v to be allowed", w)
		}
	}
	if r.IsAllowed(KindBswap, Signature{Params: []ir.TypeID{types.I8}, Return: types.I8}) {
		t.Fatalf("did not expect bswap.i8 to be allowed")
	}
}

func TestForbiddenAlwaysRejected(t *testing.T) {
	types, _ := testTypes()
	r := NewRegistry(types, false)
	if r.IsAllowed(KindLifetimeStart, Signature{}) {
		t.Fatalf("lifetime.start must never be allowed, any signature")
	}
	if !r.IsForbidden(KindVaStart) {
		t.Fatalf("vastart must be on the deny-list")
	}
}

func TestDebugIntrinsicsGatedByFlag(t *testing.T) {
	types, _ := testTypes()

	off := NewRegistry(types, false)
	if off.IsAllowed(KindDbgDeclare, Signature{Return: types.Void}) {
		t.Fatalf("dbg.declare must be rejected when debug metadata is disabled")
	}

	on := NewRegistry(types, true)
	if !on.IsAllowed(KindDbgDeclare, Signature{Return: types.Void}) {
		t.Fatalf("dbg.declare must be allowed when debug metadata is enabled")
	}
}

func TestMemoryOrderAndRMWRanges(t *testing.T) {
	if !IsAdmittedMemoryOrder(MemoryOrderSequentiallyConsistent) {
		t.Fatalf("sequentially-consistent must be admitted")
	}
	if IsAdmittedMemoryOrder(MemoryOrderAcquire) {
		t.Fatalf("acquire must not presently be admitted (spec open question #3)")
	}
	if IsAdmittedMemoryOrder(MemoryOrderInvalid) || IsAdmittedMemoryOrder(MemoryOrderNum) {
		t.Fatalf("sentinel values must never be admitted")
	}
	if !IsAdmittedRMWOperation(AtomicRMWAdd) {
		t.Fatalf("add must be an admitted RMW operation")
	}
	if IsAdmittedRMWOperation(AtomicRMWInvalid) || IsAdmittedRMWOperation(AtomicRMWNum) {
		t.Fatalf("sentinel values must never be admitted")
	}
}

func TestLockFreeByteSizes(t *testing.T) {
	for _, sz := range []int64{1, 2, 4, 8} {
		if !AdmittedLockFreeByteSizes[sz] {
			t.Fatalf("expected byte size %d to be admitted", sz)
		}
	}
	if AdmittedLockFreeByteSizes[3] {
		t.Fatalf("did not expect byte size 3 to be admitted")
	}
}
