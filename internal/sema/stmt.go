package sema

import (
	"fmt"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
	"movecheck/internal/types"
)

// checkBlock checks statements in order. For a function body the tail is the
// returned value; nested block tails are typed and discarded.
func (tc *typeChecker) checkBlock(block *ast.Block, fnBody bool) {
	for _, stmtID := range block.Stmts {
		tc.checkStmt(stmtID)
	}
	if !block.Tail.IsValid() {
		return
	}
	tail := tc.typeOf(block.Tail)
	if fnBody {
		tc.expectType(tc.fn.Result, tc.fn.ResultSpan, tail, "Invalid return expression")
	}
	tc.endStatement()
}

func (tc *typeChecker) checkStmt(id ast.StmtID) {
	stmt := tc.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtLet:
		tc.checkLet(id)
	case ast.StmtReturn:
		data, ok := tc.builder.Stmts.Return(id)
		if !ok {
			return
		}
		value := literalOperand(tc.types.Builtins().Unit, stmt.Span)
		if data.Value.IsValid() {
			value = tc.typeOf(data.Value)
		}
		tc.expectType(tc.fn.Result, tc.fn.ResultSpan, value, "Invalid return expression")
		tc.endStatement()
	case ast.StmtIf:
		tc.checkIf(stmt, id)
	case ast.StmtExpr:
		if data, ok := tc.builder.Stmts.Expr(id); ok {
			tc.typeOf(data.Expr)
			tc.endStatement()
		}
	}
}

func (tc *typeChecker) checkLet(id ast.StmtID) {
	data, ok := tc.builder.Stmts.Let(id)
	if !ok {
		return
	}
	b := tc.types.Builtins()

	var value Operand
	if data.Value.IsValid() {
		value = tc.typeOf(data.Value)
	}

	bound := b.Unknown
	decl := data.NameSpan
	switch {
	case data.Type.IsValid():
		decl = typeSpan(tc.builder, data.Type, data.NameSpan)
		bound = tc.lowerer.lower(data.Type)
		if tc.notSingle(bound, decl, data.Name) {
			bound = b.Unknown
			break
		}
		if data.Value.IsValid() {
			tc.expectType(bound, decl, value, fmt.Sprintf("Invalid type for local '%s'", data.Name))
		}
	case data.Value.IsValid():
		bound = value.Type
		if tc.notSingle(bound, value.Span, data.Name) {
			bound = b.Unknown
		}
	}

	tc.endStatement()
	if symID, ok := tc.syms.Locals[id]; ok {
		tc.bindings[symID] = binding{typ: tc.subst.Zonk(bound), decl: decl}
	}
}

// notSingle reports E04005 when a local would hold an expression list.
func (tc *typeChecker) notSingle(t types.TypeID, sp source.Span, name string) bool {
	t = tc.subst.Resolve(t)
	if tc.types.Kind(t) != types.KindTuple {
		return false
	}
	tc.report(diag.TypeExpectedSingleType, sp, fmt.Sprintf("Invalid type for local '%s'", name)).
		WithSecondary(sp, fmt.Sprintf("Expected a single type, but found expression list type: %s", tc.display(t))).
		Emit()
	return true
}

func (tc *typeChecker) checkIf(stmt *ast.Stmt, id ast.StmtID) {
	data, ok := tc.builder.Stmts.If(id)
	if !ok {
		return
	}
	cond := tc.typeOf(data.Cond)
	kw := source.Span{File: stmt.Span.File, Start: stmt.Span.Start, End: stmt.Span.Start + 2}
	tc.expectType(tc.types.Builtins().Bool, kw, cond, "Invalid if condition")
	tc.endStatement()

	tc.checkBlock(&data.Then, false)
	if data.Else != nil {
		tc.checkBlock(data.Else, false)
	}
}
