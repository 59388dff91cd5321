package ir

import "testing"

func TestTypeArenaInterning(t *testing.T) {
	a := NewTypeArena()

	i32a := a.Int(32)
	i32b := a.Int(32)
	if i32a != i32b {
		t.Fatalf("expected i32 to intern to the same TypeID, got %d and %d", i32a, i32b)
	}

	i64 := a.Int(64)
	if i64 == i32a {
		t.Fatalf("expected i64 and i32 to have distinct TypeIDs")
	}

	vecA := a.Vector(i32a, 4)
	vecB := a.Vector(a.Int(32), 4)
	if vecA != vecB {
		t.Fatalf("expected structurally-equal vector types to intern to the same TypeID")
	}

	ptr := a.Pointer(i32a, 0)
	if a.TypeName(ptr) != "i32*" {
		t.Fatalf("unexpected pointer type name: %s", a.TypeName(ptr))
	}
	if a.TypeName(vecA) != "<4 x i32>" {
		t.Fatalf("unexpected vector type name: %s", a.TypeName(vecA))
	}
}

func TestTypeArenaOutOfRangePanics(t *testing.T) {
	a := NewTypeArena()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-range TypeID")
		}
	}()
	a.Type(TypeID(99))
}
