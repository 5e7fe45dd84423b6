package sema

import (
	"fmt"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/symbols"
	"movecheck/internal/types"
)

// typeOf types an expression and records the result. A failed expression
// types as Unknown; typing never stops early.
func (tc *typeChecker) typeOf(id ast.ExprID) Operand {
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		return Operand{Type: tc.unknown()}
	}
	op := tc.typeOfExpr(id, expr)
	tc.exprTypes[id] = op.Type
	tc.pending = append(tc.pending, id)
	return op
}

func (tc *typeChecker) typeOfExpr(id ast.ExprID, expr *ast.Expr) Operand {
	b := tc.types.Builtins()
	switch expr.Kind {
	case ast.ExprIdent:
		return tc.typeIdent(id, expr)
	case ast.ExprLit:
		return tc.typeLiteral(id, expr)
	case ast.ExprBinary:
		data, ok := tc.builder.Exprs.Binary(id)
		if !ok {
			break
		}
		left := tc.typeOf(data.Left)
		right := tc.typeOf(data.Right)
		result, diags := tc.rules.CheckBinary(data.Op, data.OpSpan, left, right)
		for _, d := range diags {
			tc.reporter.Report(d)
		}
		return literalOperand(result, expr.Span)
	case ast.ExprUnary:
		return tc.typeUnary(id, expr)
	case ast.ExprCall:
		return tc.typeCall(id, expr)
	case ast.ExprTuple:
		data, ok := tc.builder.Exprs.Tuple(id)
		if !ok {
			break
		}
		elems := make([]types.TypeID, len(data.Elems))
		for i, el := range data.Elems {
			elems[i] = tc.typeOf(el).Type
		}
		return literalOperand(tc.types.RegisterTuple(elems), expr.Span)
	case ast.ExprCast:
		return tc.typeCast(id, expr)
	case ast.ExprGroup:
		data, ok := tc.builder.Exprs.Group(id)
		if !ok {
			break
		}
		inner := tc.typeOf(data.Inner)
		return Operand{Type: inner.Type, Span: expr.Span, Prov: inner.Prov}
	}
	return literalOperand(b.Unknown, expr.Span)
}

func (tc *typeChecker) typeIdent(id ast.ExprID, expr *ast.Expr) Operand {
	sym, symID := tc.syms.Symbol(id)
	if sym == nil {
		// неразрешённое имя уже отчитано резолвером
		return literalOperand(tc.unknown(), expr.Span)
	}
	switch sym.Kind {
	case symbols.SymbolParam, symbols.SymbolLocal:
		if bd, ok := tc.bindings[symID]; ok {
			return Operand{Type: bd.typ, Span: expr.Span, Prov: types.BindingProv(bd.decl)}
		}
	}
	return literalOperand(tc.unknown(), expr.Span)
}

func (tc *typeChecker) typeLiteral(id ast.ExprID, expr *ast.Expr) Operand {
	b := tc.types.Builtins()
	lit, ok := tc.builder.Exprs.Literal(id)
	if !ok {
		return literalOperand(b.Unknown, expr.Span)
	}
	switch lit.Kind {
	case ast.ExprLitTrue, ast.ExprLitFalse:
		return literalOperand(b.Bool, expr.Span)
	case ast.ExprLitAddress:
		return literalOperand(b.Address, expr.Span)
	case ast.ExprLitInt:
		value, err := types.ParseIntLiteral(lit.Value)
		if err != nil {
			tc.report(diag.SynInvalidNumber, expr.Span, fmt.Sprintf("Invalid number literal '%s'", lit.Value)).Emit()
			return literalOperand(b.Unknown, expr.Span)
		}
		if lit.Suffix != "" {
			w, ok := types.WidthByName(lit.Suffix)
			if !ok {
				tc.report(diag.SynInvalidNumber, expr.Span, fmt.Sprintf("Invalid number suffix '%s'", lit.Suffix)).Emit()
				return literalOperand(b.Unknown, expr.Span)
			}
			if !types.FitsWidth(value, w) {
				tc.report(diag.TypeIntLiteralOutOfRange, expr.Span,
					fmt.Sprintf("Invalid numerical literal '%s'. Expected a literal of type '%s', but the value is too large.", lit.Value, w.Name())).
					Emit()
			}
			return literalOperand(b.Uint(w), expr.Span)
		}
		t := tc.subst.NewIntLiteral()
		tc.literals = append(tc.literals, pendingLit{value: value, text: lit.Value, span: expr.Span, typ: t})
		return literalOperand(t, expr.Span)
	}
	return literalOperand(b.Unknown, expr.Span)
}

func (tc *typeChecker) typeUnary(id ast.ExprID, expr *ast.Expr) Operand {
	data, ok := tc.builder.Exprs.Unary(id)
	if !ok {
		return literalOperand(tc.unknown(), expr.Span)
	}
	operand := tc.typeOf(data.Operand)
	spec, ok := types.UnarySpecFor(data.Op)
	if !ok || tc.isUnknown(operand.Type) {
		return literalOperand(tc.unknown(), expr.Span)
	}
	t := tc.subst.Resolve(operand.Type)
	if spec.Operand&types.FamilyOf(tc.types.MustLookup(t)) == 0 {
		tc.report(diag.TypeBuiltinOpNotSupported, operand.Span, fmt.Sprintf("Invalid argument to '%s'", data.Op)).
			WithSecondary(operand.Prov.Span, fmt.Sprintf("Found: %s. But expected: %s", tc.display(t), spec.Operand.ExpectedList())).
			Emit()
		return literalOperand(tc.unknown(), expr.Span)
	}
	return literalOperand(t, expr.Span)
}

func (tc *typeChecker) typeCast(id ast.ExprID, expr *ast.Expr) Operand {
	data, ok := tc.builder.Exprs.Cast(id)
	if !ok {
		return literalOperand(tc.unknown(), expr.Span)
	}
	value := tc.typeOf(data.Value)
	target := tc.lowerer.lower(data.Type)
	targetSpan := typeSpan(tc.builder, data.Type, expr.Span)
	expected := types.FamilyUint.ExpectedList()

	failed := false
	if !tc.isUnknown(value.Type) {
		vt := tc.subst.Resolve(value.Type)
		if types.FamilyOf(tc.types.MustLookup(vt))&types.FamilyUint == 0 {
			tc.report(diag.TypeBuiltinOpNotSupported, value.Span, "Invalid argument to 'as'").
				WithSecondary(value.Prov.Span, fmt.Sprintf("Found: %s. But expected: %s", tc.display(vt), expected)).
				Emit()
			failed = true
		}
	}
	if tc.isUnknown(target) {
		return literalOperand(tc.unknown(), expr.Span)
	}
	if tc.types.Kind(target) != types.KindUint {
		tc.report(diag.TypeBuiltinOpNotSupported, targetSpan, "Invalid argument to 'as'").
			WithSecondary(targetSpan, fmt.Sprintf("Found: %s. But expected: %s", tc.display(target), expected)).
			Emit()
		return literalOperand(tc.unknown(), expr.Span)
	}
	if failed {
		return literalOperand(tc.unknown(), expr.Span)
	}
	return literalOperand(target, expr.Span)
}

func (tc *typeChecker) typeCall(id ast.ExprID, expr *ast.Expr) Operand {
	data, ok := tc.builder.Exprs.Call(id)
	if !ok {
		return literalOperand(tc.unknown(), expr.Span)
	}
	args := make([]Operand, len(data.Args))
	for i, arg := range data.Args {
		args[i] = tc.typeOf(arg)
	}
	callee, ok := tc.syms.Calls[id]
	sig := tc.sigs[callee]
	if !ok || sig == nil {
		return literalOperand(tc.unknown(), expr.Span)
	}

	if len(args) != len(sig.Params) {
		tc.report(diag.TypeIncompatible, data.ArgsSpan, fmt.Sprintf("Invalid call of '%s'", sig.Name)).
			WithSecondary(data.ArgsSpan, tupleLengthMsg(len(args))).
			WithSecondary(sig.ParamsSpan, tupleLengthMsg(len(sig.Params))).
			Emit()
	} else {
		for i, arg := range args {
			p := sig.Params[i]
			tc.expectType(p.Type, p.TypeSpan, arg,
				fmt.Sprintf("Invalid argument for parameter '%s' of '%s'", p.Name, sig.Name))
		}
	}

	// результат определяется сигнатурой даже при ошибках в аргументах
	if !sig.HasResult {
		return literalOperand(sig.Result, expr.Span)
	}
	return Operand{Type: sig.Result, Span: expr.Span, Prov: types.BindingProv(sig.ResultSpan)}
}
