package parser

import (
	"testing"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Builder, Result, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.move", []byte(src))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(fs.Get(id), b, Options{Reporter: diag.BagReporter{Bag: bag}})
	return b, res, bag, fs
}

func firstFn(t *testing.T, b *ast.Builder, file ast.FileID) *ast.FnItem {
	t.Helper()
	fns := b.Functions(file)
	if len(fns) == 0 {
		t.Fatal("no functions parsed")
	}
	fn, _ := b.Items.Fn(fns[0])
	return fn
}

func TestParseChainedComparisonIsLeftAssociative(t *testing.T) {
	b, res, bag, fs := parseSource(t, "module M { fun f() { 0 < 1 < 2; } }")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	fn := firstFn(t, b, res.File)
	st, _ := b.Stmts.Expr(fn.Body.Stmts[0])
	outer, ok := b.Exprs.Binary(st.Expr)
	if !ok || outer.Op != ast.ExprBinaryLess {
		t.Fatal("expected outer '<'")
	}
	if got := fs.Slice(b.Exprs.Get(outer.Left).Span); got != "0 < 1" {
		t.Fatalf("left operand = %q", got)
	}
	if got := fs.Slice(outer.OpSpan); got != "<" {
		t.Fatalf("operator span slices to %q", got)
	}
	if got := fs.Slice(b.Exprs.Get(outer.Right).Span); got != "2" {
		t.Fatalf("right operand = %q", got)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		op   ast.ExprBinaryOp
		left string
	}{
		{"a + b * c", ast.ExprBinaryAdd, "a"},
		{"a * b + c", ast.ExprBinaryAdd, "a * b"},
		{"a < b && c", ast.ExprBinaryLogicalAnd, "a < b"},
		{"a || b && c", ast.ExprBinaryLogicalOr, "a"},
		{"a == b < c", ast.ExprBinaryEq, "a"},
		{"a << 1 + 2", ast.ExprBinaryShiftLeft, "a"},
		{"a & b | c", ast.ExprBinaryBitOr, "a & b"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			b, res, bag, fs := parseSource(t, "module M { fun f() { "+tt.src+"; } }")
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
			fn := firstFn(t, b, res.File)
			st, _ := b.Stmts.Expr(fn.Body.Stmts[0])
			bin, ok := b.Exprs.Binary(st.Expr)
			if !ok || bin.Op != tt.op {
				t.Fatalf("top operator mismatch: %+v", bin)
			}
			if got := fs.Slice(b.Exprs.Get(bin.Left).Span); got != tt.left {
				t.Fatalf("left = %q, want %q", got, tt.left)
			}
		})
	}
}

func TestParseParenForms(t *testing.T) {
	src := "module M { fun f(x: u64): (u64, bool) { let u = (); let g = (x); let c = (x as u8); (x, true) } }"
	b, res, bag, _ := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	fn := firstFn(t, b, res.File)
	wantKinds := []ast.ExprKind{ast.ExprTuple, ast.ExprGroup, ast.ExprCast}
	for i, k := range wantKinds {
		let, _ := b.Stmts.Let(fn.Body.Stmts[i])
		if got := b.Exprs.Get(let.Value).Kind; got != k {
			t.Fatalf("let %d kind = %v, want %v", i, got, k)
		}
	}
	tail, ok := b.Exprs.Tuple(fn.Body.Tail)
	if !ok || len(tail.Elems) != 2 {
		t.Fatalf("tail should be a 2-tuple")
	}
	res2 := b.Types.Get(fn.Result)
	if res2.Kind != ast.TypeExprTuple || len(res2.Args) != 2 {
		t.Fatalf("result type = %+v", res2)
	}
}

func TestParseLiterals(t *testing.T) {
	b, res, _, _ := parseSource(t, "module M { fun f() { 1_000u128; @0x1; 0xff; } }")
	fn := firstFn(t, b, res.File)
	want := []ast.ExprLiteralData{
		{Kind: ast.ExprLitInt, Value: "1000", Suffix: "u128"},
		{Kind: ast.ExprLitAddress, Value: "0x1"},
		{Kind: ast.ExprLitInt, Value: "0xff"},
	}
	for i, w := range want {
		st, _ := b.Stmts.Expr(fn.Body.Stmts[i])
		lit, ok := b.Exprs.Literal(st.Expr)
		if !ok || *lit != w {
			t.Fatalf("literal %d = %+v, want %+v", i, lit, w)
		}
	}
}

func TestParseStructAndIf(t *testing.T) {
	src := `module M {
    struct Coin<T> { value: u64, owner: address }
    fun g(c: Coin<u8>) { if (true) { return; } else { 1; } }
}`
	b, res, bag, _ := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	file := b.Files.Get(res.File)
	mod := b.Files.Module(file.Modules[0])
	if len(mod.Items) != 2 {
		t.Fatalf("items = %d", len(mod.Items))
	}
	st, ok := b.Items.Struct(mod.Items[0])
	if !ok || len(st.TypeParams) != 1 || len(st.Fields) != 2 {
		t.Fatalf("struct = %+v", st)
	}
	fn, _ := b.Items.Fn(mod.Items[1])
	ifs, ok := b.Stmts.If(fn.Body.Stmts[0])
	if !ok || ifs.Else == nil {
		t.Fatal("expected if/else")
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	src := "module M { fun f() { let = 1; 2 + ; 3; } fun g() { } }"
	b, res, bag, _ := parseSource(t, src)
	if bag.CountByCode(diag.SynUnexpectedToken) != 2 {
		t.Fatalf("expected two syntax errors, got %+v", bag.Items())
	}
	if len(b.Functions(res.File)) != 2 {
		t.Fatal("parser should recover and parse both functions")
	}
	fn := firstFn(t, b, res.File)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected the valid statement to survive, got %d", len(fn.Body.Stmts))
	}
}
