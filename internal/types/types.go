package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnknown is the placeholder of an expression that failed to type.
	// It is compatible with everything and never reported again.
	KindUnknown
	KindUnit
	KindBool
	KindAddress
	KindUint
	KindTuple
	KindStruct
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindUint:
		return "uint"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	case KindVar:
		return "var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of unsigned integers.
type Width uint16

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
	Width256 Width = 256
)

// UintWidths lists the integer widths in ascending order.
var UintWidths = [...]Width{Width8, Width16, Width32, Width64, Width128, Width256}

// WidthByName maps "u8".."u256" to a width.
func WidthByName(name string) (Width, bool) {
	for _, w := range UintWidths {
		if w.Name() == name {
			return w, true
		}
	}
	return WidthAny, false
}

// Name returns the source spelling, e.g. "u64".
func (w Width) Name() string {
	return fmt.Sprintf("u%d", w)
}

// VarKind tags what a type variable may be bound to.
type VarKind uint8

const (
	// VarInteger stands for an untyped integer literal. Zero is left for
	// non-variable descriptors.
	VarInteger VarKind = iota + 1
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Width   Width   // для KindUint
	Var     VarKind // для KindVar
	Payload uint32  // слот TupleInfo/StructInfo или номер переменной
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeVar describes the n-th type variable of a substitution.
func MakeVar(kind VarKind, n uint32) Type {
	return Type{Kind: KindVar, Var: kind, Payload: n}
}
