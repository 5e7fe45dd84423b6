package types

import (
	"errors"
	"testing"
)

func TestUnifyPrimitivesNeverWiden(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := NewSubst(in)
	for _, w1 := range UintWidths {
		for _, w2 := range UintWidths {
			_, err := s.Unify(b.Uint(w1), b.Uint(w2))
			if (err == nil) != (w1 == w2) {
				t.Fatalf("unify(u%d, u%d) err = %v", w1, w2, err)
			}
			var mm *MismatchError
			if err != nil && !errors.As(err, &mm) {
				t.Fatalf("expected *MismatchError, got %T", err)
			}
		}
	}
}

func TestUnifyTupleArity(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := NewSubst(in)
	two := in.RegisterTuple([]TypeID{b.U64, b.U64})
	three := in.RegisterTuple([]TypeID{b.U64, b.U64, b.U64})
	_, err := s.Unify(two, three)
	var ae *ArityError
	if !errors.As(err, &ae) || ae.LeftLen != 2 || ae.RightLen != 3 {
		t.Fatalf("expected arity error 2 vs 3, got %v", err)
	}
	if _, err := s.Unify(two, in.RegisterTuple([]TypeID{b.U64, b.Bool})); err == nil {
		t.Fatal("element mismatch must fail")
	}
}

func TestIntegerVariableBinding(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := NewSubst(in)

	v := s.NewIntLiteral()
	if _, err := s.Unify(v, b.Bool); err == nil {
		t.Fatal("integer variable must not bind to bool")
	}
	if !s.IsUnresolvedInteger(v) {
		t.Fatal("failed unification must not bind")
	}
	got, err := s.Unify(b.U8, v)
	if err != nil || got != b.U8 || s.Resolve(v) != b.U8 {
		t.Fatalf("unify(u8, var) = %v, %v; resolve = %v", got, err, s.Resolve(v))
	}
	if _, err := s.Unify(v, b.U16); err == nil {
		t.Fatal("bound variable must keep its width")
	}
}

func TestLinkedIntegersDefaultTogether(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := NewSubst(in)
	a, c := s.NewIntLiteral(), s.NewIntLiteral()
	if _, err := s.Unify(a, c); err != nil {
		t.Fatal(err)
	}
	if !s.IsUnresolvedInteger(a) || !s.IsUnresolvedInteger(c) {
		t.Fatal("linking two literals must leave them unresolved")
	}
	if n := s.DefaultIntegers(); n != 1 {
		t.Fatalf("defaulted %d roots, want 1", n)
	}
	if s.Resolve(a) != b.U64 || s.Resolve(c) != b.U64 {
		t.Fatal("both literals should default to u64")
	}

	x, y := s.NewIntLiteral(), s.NewIntLiteral()
	s.Unify(x, y)
	s.Unify(y, b.U128)
	if s.Resolve(x) != b.U128 {
		t.Fatal("anchoring one linked literal must resolve the other")
	}
}

func TestZonkAndEscapedVariables(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := NewSubst(in)
	v := s.NewIntLiteral()
	tup := in.RegisterTuple([]TypeID{v, b.Bool})
	if err := s.CheckResolved(tup); !errors.Is(err, ErrEscapedTypeVar) {
		t.Fatalf("expected ErrEscapedTypeVar, got %v", err)
	}
	s.DefaultIntegers()
	if got := s.Zonk(tup); got != in.RegisterTuple([]TypeID{b.U64, b.Bool}) {
		t.Fatalf("zonk = %s", Label(in, got))
	}
	if err := s.CheckResolved(tup); err != nil {
		t.Fatal(err)
	}
}

func TestUnifyUnknownAndStructs(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := NewSubst(in)
	v := s.NewIntLiteral()
	if got, err := s.Unify(b.Unknown, v); err != nil || got != v || !s.IsUnresolvedInteger(v) {
		t.Fatal("unknown must unify without binding")
	}
	c8 := in.RegisterStruct("M", "Coin", []TypeID{b.U8})
	cv := in.RegisterStruct("M", "Coin", []TypeID{v})
	if _, err := s.Unify(c8, cv); err != nil || s.Resolve(v) != b.U8 {
		t.Fatalf("struct args should unify pairwise: %v", err)
	}
	if _, err := s.Unify(c8, in.RegisterStruct("M", "Other", []TypeID{b.U8})); err == nil {
		t.Fatal("different struct names must not unify")
	}
}

func TestFailedUnifyRollsBackBindings(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	t.Run("tuple", func(t *testing.T) {
		s := NewSubst(in)
		v := s.NewIntLiteral()
		left := in.RegisterTuple([]TypeID{v, b.Bool})
		right := in.RegisterTuple([]TypeID{b.U8, b.U8})
		if _, err := s.Unify(left, right); err == nil {
			t.Fatal("(integer, bool) must not unify with (u8, u8)")
		}
		if !s.IsUnresolvedInteger(v) {
			t.Fatalf("literal left bound to %s", Label(in, s.Resolve(v)))
		}
		if got := Label(in, s.Zonk(left)); got != "(integer, bool)" {
			t.Fatalf("label = %q", got)
		}
	})

	t.Run("struct args", func(t *testing.T) {
		s := NewSubst(in)
		v := s.NewIntLiteral()
		left := in.RegisterStruct("M", "Pair", []TypeID{v, b.Bool})
		right := in.RegisterStruct("M", "Pair", []TypeID{b.U16, b.U8})
		if _, err := s.Unify(left, right); err == nil {
			t.Fatal("struct args must not unify")
		}
		if !s.IsUnresolvedInteger(v) {
			t.Fatal("struct unify must roll back")
		}
	})

	t.Run("linked literals", func(t *testing.T) {
		s := NewSubst(in)
		x, y := s.NewIntLiteral(), s.NewIntLiteral()
		left := in.RegisterTuple([]TypeID{x, y, b.Bool})
		right := in.RegisterTuple([]TypeID{y, b.U32, b.U8})
		if _, err := s.Unify(left, right); err == nil {
			t.Fatal("unify should fail on the last element")
		}
		if !s.IsUnresolvedInteger(x) || !s.IsUnresolvedInteger(y) {
			t.Fatal("links made by a failed unify must be undone")
		}
		if n := s.DefaultIntegers(); n != 2 {
			t.Fatalf("defaulted %d roots, want 2", n)
		}
	})

	t.Run("earlier bindings survive", func(t *testing.T) {
		s := NewSubst(in)
		v := s.NewIntLiteral()
		if _, err := s.Unify(v, b.U8); err != nil {
			t.Fatal(err)
		}
		w := s.NewIntLiteral()
		if _, err := s.Unify(in.RegisterTuple([]TypeID{w, b.Bool}), in.RegisterTuple([]TypeID{b.U32, b.U8})); err == nil {
			t.Fatal("expected mismatch")
		}
		if s.Resolve(v) != b.U8 {
			t.Fatal("rollback must only undo the failed call")
		}
		if !s.IsUnresolvedInteger(w) {
			t.Fatal("w should be unbound again")
		}
	})
}

func TestIntLiteralRange(t *testing.T) {
	tests := []struct {
		text string
		w    Width
		fits bool
	}{
		{"255", Width8, true},
		{"256", Width8, false},
		{"0xffff", Width16, true},
		{"0x10000", Width16, false},
		{"18446744073709551615", Width64, true},
		{"18446744073709551616", Width64, false},
		{"18446744073709551616", Width128, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, err := ParseIntLiteral(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if FitsWidth(v, tt.w) != tt.fits {
				t.Fatalf("FitsWidth(%s, u%d) != %v", tt.text, tt.w, tt.fits)
			}
		})
	}
	if _, err := ParseIntLiteral("0x"); err == nil {
		t.Fatal("empty hex literal must fail")
	}
}
