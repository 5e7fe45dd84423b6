package sema

import (
	"fmt"
	"sort"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
	"movecheck/internal/types"
)

// RuleEngine applies the built-in binary operator rules on top of a
// function's substitution.
type RuleEngine struct {
	Types *types.Interner
	Subst *types.Subst
}

// CheckBinary validates both operands of op and returns the result type with
// the diagnostics it produced, ordered by primary span.
//
// Each operand is first checked against the operator's allowed set on its own
// (E04003). The pair is then unified (E04007) unless an operand is Unknown or
// both already failed. Any failure makes the result Unknown.
func (r RuleEngine) CheckBinary(op ast.ExprBinaryOp, opSpan source.Span, left, right Operand) (types.TypeID, []diag.Diagnostic) {
	b := r.Types.Builtins()
	spec, ok := types.BinarySpecFor(op)
	if !ok {
		return b.Unknown, nil
	}

	lt, rt := r.Subst.Resolve(left.Type), r.Subst.Resolve(right.Type)
	ld, rd := r.Types.MustLookup(lt), r.Types.MustLookup(rt)
	lUnknown, rUnknown := ld.Kind == types.KindUnknown, rd.Kind == types.KindUnknown

	var diags []diag.Diagnostic
	lOK := lUnknown || spec.Accepts(types.FamilyOf(ld))
	rOK := rUnknown || spec.Accepts(types.FamilyOf(rd))
	if !lOK {
		diags = append(diags, r.invalidArgument(op, spec, left, lt))
	}
	if !rOK {
		diags = append(diags, r.invalidArgument(op, spec, right, rt))
	}
	failed := !lOK || !rOK

	// длины кортежей сравниваем отдельно: сообщение другое, попарная проверка уже не нужна
	arity := false
	if ld.Kind == types.KindTuple && rd.Kind == types.KindTuple {
		li, _ := r.Types.TupleInfo(lt)
		ri, _ := r.Types.TupleInfo(rt)
		if len(li.Elems) != len(ri.Elems) {
			arity = true
			failed = true
			diags = append(diags, diag.NewError(diag.TypeIncompatible, opSpan,
				fmt.Sprintf("Incompatible arguments to '%s'", op)).
				WithSecondary(left.Prov.Span, tupleLengthMsg(len(li.Elems))).
				WithSecondary(right.Prov.Span, tupleLengthMsg(len(ri.Elems))))
		}
	}

	unified := b.Unknown
	if !arity && !lUnknown && !rUnknown && (lOK || rOK) {
		var err error
		unified, err = r.Subst.Unify(lt, rt)
		if err != nil {
			failed = true
			diags = append(diags, r.incompatible(op, opSpan, left, lt, right, rt))
		}
	}

	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Primary.Span.Before(diags[j].Primary.Span)
	})

	if failed {
		return b.Unknown, diags
	}
	switch spec.Result {
	case types.BinaryResultBool:
		return b.Bool, diags
	case types.BinaryResultOperand:
		if lUnknown || rUnknown {
			return b.Unknown, diags
		}
		return unified, diags
	}
	return b.Unknown, diags
}

func (r RuleEngine) invalidArgument(op ast.ExprBinaryOp, spec types.BinarySpec, arg Operand, t types.TypeID) diag.Diagnostic {
	return diag.NewError(diag.TypeBuiltinOpNotSupported, arg.Span,
		fmt.Sprintf("Invalid argument to '%s'", op)).
		WithSecondary(arg.Prov.Span, fmt.Sprintf("Found: %s. But expected: %s",
			types.Display(r.Types, r.Subst.Zonk(t)), spec.Operand.ExpectedList()))
}

func (r RuleEngine) incompatible(op ast.ExprBinaryOp, opSpan source.Span, left Operand, lt types.TypeID, right Operand, rt types.TypeID) diag.Diagnostic {
	return diag.NewError(diag.TypeIncompatible, opSpan,
		fmt.Sprintf("Incompatible arguments to '%s'", op)).
		WithSecondary(left.Prov.Span, notCompatibleMsg(r.Types, r.Subst.Zonk(lt))).
		WithSecondary(right.Prov.Span, notCompatibleMsg(r.Types, r.Subst.Zonk(rt)))
}

func notCompatibleMsg(in *types.Interner, t types.TypeID) string {
	return fmt.Sprintf("Found: %s. It is not compatible with the other type.", types.Display(in, t))
}

func tupleLengthMsg(n int) string {
	return fmt.Sprintf("Found: expression list of length %d. It is not compatible with the other type.", n)
}
