package ast

import "movecheck/internal/source"

// ExprKind enumerates expression node kinds.
type ExprKind uint8

const (
	// ExprIdent represents a reference to a local or parameter.
	ExprIdent ExprKind = iota
	// ExprLit represents an integer, boolean or address literal.
	ExprLit
	ExprBinary
	ExprUnary
	// ExprCall represents a call of a module-level function.
	ExprCall
	// ExprTuple represents an expression list `(a, b, ...)` or unit `()`.
	ExprTuple
	// ExprCast represents `(e as T)`.
	ExprCast
	// ExprGroup represents a parenthesized expression.
	ExprGroup
)

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShiftLeft
	ExprBinaryShiftRight
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
)

var binaryOpSymbols = [...]string{
	ExprBinaryAdd:        "+",
	ExprBinarySub:        "-",
	ExprBinaryMul:        "*",
	ExprBinaryDiv:        "/",
	ExprBinaryMod:        "%",
	ExprBinaryBitAnd:     "&",
	ExprBinaryBitOr:      "|",
	ExprBinaryBitXor:     "^",
	ExprBinaryShiftLeft:  "<<",
	ExprBinaryShiftRight: ">>",
	ExprBinaryLogicalAnd: "&&",
	ExprBinaryLogicalOr:  "||",
	ExprBinaryEq:         "==",
	ExprBinaryNotEq:      "!=",
	ExprBinaryLess:       "<",
	ExprBinaryLessEq:     "<=",
	ExprBinaryGreater:    ">",
	ExprBinaryGreaterEq:  ">=",
}

// String returns the operator as written in source.
func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return "?"
}

// ExprUnaryOp enumerates unary operator kinds.
type ExprUnaryOp uint8

const (
	ExprUnaryNot ExprUnaryOp = iota
	ExprUnaryMinus
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNot:
		return "!"
	case ExprUnaryMinus:
		return "-"
	}
	return "?"
}

// ExprLitKind enumerates literal kinds.
type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitTrue
	ExprLitFalse
	// ExprLitAddress is `@0x1`.
	ExprLitAddress
)

type ExprIdentData struct {
	Name string
}

type ExprLiteralData struct {
	Kind   ExprLitKind
	Value  string // цифры без суффикса
	Suffix string // "u8".."u256" или пусто
}

// ExprBinaryData holds binary operation expression details.
type ExprBinaryData struct {
	Op     ExprBinaryOp
	OpSpan source.Span
	Left   ExprID
	Right  ExprID
}

// ExprUnaryData holds unary operation expression details.
type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// ExprCallData holds function call expression details.
type ExprCallData struct {
	Name     string
	NameSpan source.Span
	Args     []ExprID
	ArgsSpan source.Span // от '(' до ')' включительно
}

type ExprTupleData struct {
	Elems []ExprID
}

type ExprCastData struct {
	Value ExprID
	Type  TypeID
}

type ExprGroupData struct {
	Inner ExprID
}
