package types

import (
	"strings"

	"movecheck/internal/ast"
)

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint32

const (
	FamilyNone FamilyMask = 0
	FamilyAny  FamilyMask = 1 << iota
	FamilyBool
	FamilyUint
)

// OpClass groups operators sharing one allowed-type set and result rule.
type OpClass uint8

const (
	ClassOrdered OpClass = iota + 1
	ClassArithmetic
	ClassEquality
	ClassBoolean
)

func (c OpClass) String() string {
	switch c {
	case ClassOrdered:
		return "ordered comparison"
	case ClassArithmetic:
		return "arithmetic"
	case ClassEquality:
		return "equality"
	case ClassBoolean:
		return "boolean"
	}
	return "unknown"
}

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	// BinaryResultBool always yields bool.
	BinaryResultBool
	// BinaryResultOperand yields the unified operand type.
	BinaryResultOperand
)

// BinarySpec lists the operand family and result rule of an operator.
type BinarySpec struct {
	Class   OpClass
	Operand FamilyMask
	Result  BinaryResult
}

var (
	orderedSpec    = BinarySpec{Class: ClassOrdered, Operand: FamilyUint, Result: BinaryResultBool}
	arithmeticSpec = BinarySpec{Class: ClassArithmetic, Operand: FamilyUint, Result: BinaryResultOperand}
	equalitySpec   = BinarySpec{Class: ClassEquality, Operand: FamilyAny, Result: BinaryResultBool}
	booleanSpec    = BinarySpec{Class: ClassBoolean, Operand: FamilyBool, Result: BinaryResultBool}
)

var binarySpecTable = map[ast.ExprBinaryOp]BinarySpec{
	ast.ExprBinaryLess:       orderedSpec,
	ast.ExprBinaryLessEq:     orderedSpec,
	ast.ExprBinaryGreater:    orderedSpec,
	ast.ExprBinaryGreaterEq:  orderedSpec,
	ast.ExprBinaryAdd:        arithmeticSpec,
	ast.ExprBinarySub:        arithmeticSpec,
	ast.ExprBinaryMul:        arithmeticSpec,
	ast.ExprBinaryDiv:        arithmeticSpec,
	ast.ExprBinaryMod:        arithmeticSpec,
	ast.ExprBinaryBitAnd:     arithmeticSpec,
	ast.ExprBinaryBitOr:      arithmeticSpec,
	ast.ExprBinaryBitXor:     arithmeticSpec,
	ast.ExprBinaryShiftLeft:  arithmeticSpec,
	ast.ExprBinaryShiftRight: arithmeticSpec,
	ast.ExprBinaryEq:         equalitySpec,
	ast.ExprBinaryNotEq:      equalitySpec,
	ast.ExprBinaryLogicalAnd: booleanSpec,
	ast.ExprBinaryLogicalOr:  booleanSpec,
}

// BinarySpecFor returns operand rules for the given operator.
func BinarySpecFor(op ast.ExprBinaryOp) (BinarySpec, bool) {
	spec, ok := binarySpecTable[op]
	return spec, ok
}

// FamilyOf classifies a resolved type. Integer variables count as FamilyUint.
// Unknown belongs to every family.
func FamilyOf(t Type) FamilyMask {
	switch t.Kind {
	case KindUnknown:
		return FamilyAny | FamilyBool | FamilyUint
	case KindBool:
		return FamilyAny | FamilyBool
	case KindUint:
		return FamilyAny | FamilyUint
	case KindVar:
		if t.Var == VarInteger {
			return FamilyAny | FamilyUint
		}
	}
	return FamilyAny
}

// Accepts reports whether a type of family mask is individually valid.
func (s BinarySpec) Accepts(family FamilyMask) bool {
	return s.Operand&family != 0
}

// ExpectedList renders the allowed set the way E04003 quotes it.
func (m FamilyMask) ExpectedList() string {
	var parts []string
	if m&FamilyBool != 0 {
		parts = append(parts, "'bool'")
	}
	if m&FamilyUint != 0 {
		for _, w := range UintWidths {
			parts = append(parts, "'"+w.Name()+"'")
		}
	}
	return strings.Join(parts, ", ")
}

// UnarySpec describes operand expectations for unary operators. The result
// is always the operand type.
type UnarySpec struct {
	Operand FamilyMask
}

var unarySpecTable = map[ast.ExprUnaryOp]UnarySpec{
	ast.ExprUnaryNot:   {Operand: FamilyBool},
	ast.ExprUnaryMinus: {Operand: FamilyUint},
}

// UnarySpecFor returns operand hints for unary operators.
func UnarySpecFor(op ast.ExprUnaryOp) (UnarySpec, bool) {
	spec, ok := unarySpecTable[op]
	return spec, ok
}
