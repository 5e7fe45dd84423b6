package types

import "movecheck/internal/source"

// ProvKind says where an operand's type was established.
type ProvKind uint8

const (
	// ProvLiteral: the type was written or inferred at the expression itself.
	ProvLiteral ProvKind = iota
	// ProvBinding: the type comes from a variable or parameter declared elsewhere.
	ProvBinding
)

// Provenance points diagnostics at the span that fixed a type.
type Provenance struct {
	Kind ProvKind
	Span source.Span
}

func LiteralProv(sp source.Span) Provenance { return Provenance{Kind: ProvLiteral, Span: sp} }

func BindingProv(sp source.Span) Provenance { return Provenance{Kind: ProvBinding, Span: sp} }
