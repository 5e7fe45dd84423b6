package sema

import (
	"movecheck/internal/source"
	"movecheck/internal/types"
)

// Operand is a typed subexpression handed to the operator rules.
// Span covers the expression itself; Prov points at whatever fixed its type.
type Operand struct {
	Type types.TypeID
	Span source.Span
	Prov types.Provenance
}

func literalOperand(t types.TypeID, sp source.Span) Operand {
	return Operand{Type: t, Span: sp, Prov: types.LiteralProv(sp)}
}
