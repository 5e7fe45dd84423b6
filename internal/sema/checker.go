package sema

import (
	"fmt"
	"math/big"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
	"movecheck/internal/symbols"
	"movecheck/internal/types"
)

// binding is what a parameter or local contributes to identifier typing.
type binding struct {
	typ  types.TypeID
	decl source.Span
}

// pendingLit is an untyped integer literal waiting for its width.
type pendingLit struct {
	value *big.Int
	text  string
	span  source.Span
	typ   types.TypeID
}

// typeChecker types one function body. It owns its substitution and is
// never shared between goroutines.
type typeChecker struct {
	builder  *ast.Builder
	syms     *symbols.Result
	types    *types.Interner
	subst    *types.Subst
	rules    RuleEngine
	sigs     map[ast.ItemID]*fnSig
	reporter diag.Reporter
	lowerer  *typeLowerer

	fn       *fnSig
	bindings map[symbols.SymbolID]binding

	exprTypes map[ast.ExprID]types.TypeID
	// выражения и литералы текущего оператора, финализируются в endStatement
	pending  []ast.ExprID
	literals []pendingLit
	err      error
}

func newTypeChecker(builder *ast.Builder, syms *symbols.Result, in *types.Interner, sigs map[ast.ItemID]*fnSig, reporter diag.Reporter) *typeChecker {
	subst := types.NewSubst(in)
	return &typeChecker{
		builder:   builder,
		syms:      syms,
		types:     in,
		subst:     subst,
		rules:     RuleEngine{Types: in, Subst: subst},
		sigs:      sigs,
		reporter:  reporter,
		bindings:  make(map[symbols.SymbolID]binding),
		exprTypes: make(map[ast.ExprID]types.TypeID),
	}
}

func (tc *typeChecker) checkFunction(itemID ast.ItemID) error {
	item := tc.builder.Items.Get(itemID)
	fn, ok := tc.builder.Items.Fn(itemID)
	sig := tc.sigs[itemID]
	if item == nil || !ok || sig == nil {
		return nil
	}
	tc.fn = sig
	tc.lowerer = &typeLowerer{builder: tc.builder, syms: tc.syms, types: tc.types, reporter: tc.reporter, module: item.Module}

	for i, symID := range tc.syms.Params[itemID] {
		if i < len(sig.Params) {
			tc.bindings[symID] = binding{typ: sig.Params[i].Type, decl: sig.Params[i].TypeSpan}
		}
	}

	tc.checkBlock(&fn.Body, true)
	if tc.err != nil {
		return fmt.Errorf("function '%s': %w", sig.Name, tc.err)
	}
	return nil
}

func (tc *typeChecker) report(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportError(tc.reporter, code, sp, msg)
}

func (tc *typeChecker) display(t types.TypeID) string {
	return types.Display(tc.types, tc.subst.Zonk(t))
}

func (tc *typeChecker) unknown() types.TypeID {
	return tc.types.Builtins().Unknown
}

func (tc *typeChecker) isUnknown(t types.TypeID) bool {
	return tc.types.Kind(tc.subst.Resolve(t)) == types.KindUnknown
}

// expectType unifies got with want; on failure it reports E04007 with the
// expected and given sides labelled.
func (tc *typeChecker) expectType(want types.TypeID, wantSpan source.Span, got Operand, msg string) bool {
	if _, err := tc.subst.Unify(want, got.Type); err != nil {
		tc.report(diag.TypeIncompatible, got.Span, msg).
			WithSecondary(wantSpan, "Expected: "+tc.display(want)).
			WithSecondary(got.Prov.Span, "Given: "+tc.display(got.Type)).
			Emit()
		return false
	}
	return true
}

// endStatement finalises the types of the statement just checked: leftover
// integer literals default to u64, literal ranges are checked, and every
// recorded expression type is zonked. A variable surviving this point is a
// checker defect.
func (tc *typeChecker) endStatement() {
	tc.subst.DefaultIntegers()

	for _, lit := range tc.literals {
		t := tc.subst.Zonk(lit.typ)
		desc := tc.types.MustLookup(t)
		if desc.Kind != types.KindUint {
			continue
		}
		if !types.FitsWidth(lit.value, desc.Width) {
			tc.report(diag.TypeIntLiteralOutOfRange, lit.span,
				fmt.Sprintf("Invalid numerical literal '%s'. Expected a literal of type '%s', but the value is too large.", lit.text, desc.Width.Name())).
				Emit()
		}
	}
	tc.literals = tc.literals[:0]

	for _, id := range tc.pending {
		t := tc.subst.Zonk(tc.exprTypes[id])
		if err := tc.subst.CheckResolved(t); err != nil && tc.err == nil {
			tc.err = err
		}
		tc.exprTypes[id] = t
	}
	tc.pending = tc.pending[:0]
}
