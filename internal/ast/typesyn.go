package ast

import (
	"movecheck/internal/source"
)

// TypeExprKind enumerates syntactic type forms.
type TypeExprKind uint8

const (
	// TypeExprPath is a builtin or struct name with optional type arguments.
	TypeExprPath TypeExprKind = iota
	// TypeExprTuple is `()` or `(T1, T2, ...)`.
	TypeExprTuple
)

type TypeExpr struct {
	Kind     TypeExprKind
	Span     source.Span
	Name     string   // для TypeExprPath
	Args     []TypeID // аргументы типа или элементы кортежа
	NameSpan source.Span
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

// NewPath creates a named type reference.
func (t *TypeExprs) NewPath(span source.Span, name string, nameSpan source.Span, args []TypeID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{
		Kind:     TypeExprPath,
		Span:     span,
		Name:     name,
		NameSpan: nameSpan,
		Args:     append([]TypeID(nil), args...),
	}))
}

// NewTuple creates a tuple type; no elements means unit.
func (t *TypeExprs) NewTuple(span source.Span, elems []TypeID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{
		Kind: TypeExprTuple,
		Span: span,
		Args: append([]TypeID(nil), elems...),
	}))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
