package types

import (
	"testing"

	"movecheck/internal/ast"
)

func TestBinarySpecClasses(t *testing.T) {
	tests := []struct {
		op    ast.ExprBinaryOp
		class OpClass
	}{
		{ast.ExprBinaryLess, ClassOrdered},
		{ast.ExprBinaryGreaterEq, ClassOrdered},
		{ast.ExprBinaryAdd, ClassArithmetic},
		{ast.ExprBinaryShiftLeft, ClassArithmetic},
		{ast.ExprBinaryBitXor, ClassArithmetic},
		{ast.ExprBinaryEq, ClassEquality},
		{ast.ExprBinaryLogicalOr, ClassBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			spec, ok := BinarySpecFor(tt.op)
			if !ok || spec.Class != tt.class {
				t.Fatalf("class = %v, want %v", spec.Class, tt.class)
			}
		})
	}
}

func TestSpecAccepts(t *testing.T) {
	ordered, _ := BinarySpecFor(ast.ExprBinaryLess)
	eq, _ := BinarySpecFor(ast.ExprBinaryEq)
	and, _ := BinarySpecFor(ast.ExprBinaryLogicalAnd)

	u64 := FamilyOf(MakeUint(Width64))
	boolean := FamilyOf(Type{Kind: KindBool})
	tuple := FamilyOf(Type{Kind: KindTuple})
	intVar := FamilyOf(MakeVar(VarInteger, 0))

	if !ordered.Accepts(u64) || !ordered.Accepts(intVar) || ordered.Accepts(boolean) || ordered.Accepts(tuple) {
		t.Fatal("ordered comparison accepts integers only")
	}
	if !eq.Accepts(tuple) || !eq.Accepts(boolean) {
		t.Fatal("equality accepts any type")
	}
	if !and.Accepts(boolean) || and.Accepts(u64) {
		t.Fatal("boolean operators accept bool only")
	}
}

func TestExpectedList(t *testing.T) {
	if got := FamilyUint.ExpectedList(); got != "'u8', 'u16', 'u32', 'u64', 'u128', 'u256'" {
		t.Fatalf("uint list = %q", got)
	}
	if got := FamilyBool.ExpectedList(); got != "'bool'" {
		t.Fatalf("bool list = %q", got)
	}
}
