package types

import (
	"sync"
	"testing"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Unit == NoTypeID || b.Bool == NoTypeID || b.U256 == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	unit, _ := in.Lookup(b.Unit)
	if unit.Kind != KindUnit {
		t.Fatalf("expected unit kind, got %v", unit.Kind)
	}
	for _, w := range UintWidths {
		if got := in.MustLookup(b.Uint(w)); got.Width != w {
			t.Fatalf("Uint(%d) has width %d", w, got.Width)
		}
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	t1 := in.RegisterTuple([]TypeID{b.U8, b.Bool})
	t2 := in.RegisterTuple([]TypeID{b.U8, b.Bool})
	if t1 != t2 {
		t.Fatalf("tuple types should be deduplicated")
	}
	if in.RegisterTuple([]TypeID{b.Bool, b.U8}) == t1 {
		t.Fatalf("element order must affect identity")
	}
	if in.RegisterTuple(nil) != b.Unit {
		t.Fatalf("empty tuple must be unit")
	}
	s1 := in.RegisterStruct("M", "Coin", []TypeID{b.U64})
	if s1 != in.RegisterStruct("M", "Coin", []TypeID{b.U64}) {
		t.Fatalf("struct instantiations should be deduplicated")
	}
	if s1 == in.RegisterStruct("M", "Coin", []TypeID{b.U8}) || s1 == in.RegisterStruct("N", "Coin", []TypeID{b.U64}) {
		t.Fatalf("struct identity must include module and arguments")
	}
}

func TestInternerConcurrentRegister(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	ids := make([]TypeID, 16)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = in.RegisterTuple([]TypeID{b.U8, b.U16, b.U32})
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("concurrent registration produced different IDs: %v", ids)
		}
	}
}

func TestLabelAndDisplay(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := NewSubst(in)
	v := s.NewIntLiteral()
	tests := []struct {
		id      TypeID
		label   string
		display string
	}{
		{b.U64, "u64", "'u64'"},
		{b.Bool, "bool", "'bool'"},
		{b.Unit, "()", "'()'"},
		{in.RegisterTuple([]TypeID{b.U8, b.Address}), "(u8, address)", "'(u8, address)'"},
		{in.RegisterStruct("M", "Coin", []TypeID{b.U8}), "M::Coin<u8>", "'M::Coin<u8>'"},
		{v, "integer", "integer"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Label(in, tt.id); got != tt.label {
				t.Fatalf("Label = %q, want %q", got, tt.label)
			}
			if got := Display(in, tt.id); got != tt.display {
				t.Fatalf("Display = %q, want %q", got, tt.display)
			}
		})
	}
}
