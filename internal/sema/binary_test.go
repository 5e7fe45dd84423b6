package sema

import (
	"testing"

	"movecheck/internal/ast"
	"movecheck/internal/source"
	"movecheck/internal/types"
)

func operandAt(t types.TypeID, start uint32) Operand {
	sp := source.Span{File: 1, Start: start, End: start + 1}
	return Operand{Type: t, Span: sp, Prov: types.LiteralProv(sp)}
}

func TestRuleEngineResults(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	opSpan := source.Span{File: 1, Start: 2, End: 3}

	cases := []struct {
		name        string
		op          ast.ExprBinaryOp
		left, right types.TypeID
		want        types.TypeID
		diags       int
	}{
		{"add same width", ast.ExprBinaryAdd, b.U32, b.U32, b.U32, 0},
		{"less yields bool", ast.ExprBinaryLess, b.U8, b.U8, b.Bool, 0},
		{"equality on addresses", ast.ExprBinaryEq, b.Address, b.Address, b.Bool, 0},
		{"and on bools", ast.ExprBinaryLogicalAnd, b.Bool, b.Bool, b.Bool, 0},
		{"and on ints", ast.ExprBinaryLogicalAnd, b.U8, b.U8, b.Unknown, 2},
		{"unknown left is silent", ast.ExprBinaryLess, b.Unknown, b.U64, b.Bool, 0},
		{"unknown both arithmetic", ast.ExprBinaryMul, b.Unknown, b.Unknown, b.Unknown, 0},
		{"unknown with bad right", ast.ExprBinaryAdd, b.Unknown, b.Bool, b.Unknown, 1},
		{"equality mismatch", ast.ExprBinaryNotEq, b.Bool, b.Address, b.Unknown, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := RuleEngine{Types: in, Subst: types.NewSubst(in)}
			got, diags := rules.CheckBinary(tc.op, opSpan, operandAt(tc.left, 0), operandAt(tc.right, 4))
			if got != tc.want {
				t.Fatalf("result = %s, want %s", types.Label(in, got), types.Label(in, tc.want))
			}
			if len(diags) != tc.diags {
				t.Fatalf("got %d diagnostics: %+v", len(diags), diags)
			}
		})
	}
}

func TestRuleEngineBindsLiteral(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	subst := types.NewSubst(in)
	lit := subst.NewIntLiteral()
	rules := RuleEngine{Types: in, Subst: subst}
	got, diags := rules.CheckBinary(ast.ExprBinaryAdd, source.Span{}, operandAt(b.U128, 0), operandAt(lit, 4))
	if len(diags) != 0 || got != b.U128 {
		t.Fatalf("got %s with %d diagnostics", types.Label(in, got), len(diags))
	}
	if subst.Resolve(lit) != b.U128 {
		t.Fatal("literal was not bound to u128")
	}
}
