package diag

import (
	"fmt"
)

// Code is a stable diagnostic identifier. The value encodes a two digit
// category and a three digit number: 4003 renders as E04003.
type Code uint16

// Category is the leading two digits of a Code.
type Category uint8

const (
	CategoryUnknown  Category = 0
	CategorySyntax   Category = 1
	CategoryDecl     Category = 2
	CategoryNaming   Category = 3
	CategoryTyping   Category = 4
	CategoryInternal Category = 9
	CategoryIO       Category = 10
)

const (
	UnknownCode Code = 0

	// Лексические и синтаксические
	SynInvalidCharacter Code = 1001
	SynUnexpectedToken  Code = 1002
	SynInvalidNumber    Code = 1003

	// Объявления
	DeclDuplicate Code = 2001

	// Разрешение имён
	NameUnboundVariable Code = 3001
	NameUnboundType     Code = 3002
	NameUnboundFunction Code = 3003

	// Типизация
	TypeBuiltinOpNotSupported Code = 4003
	TypeExpectedSingleType    Code = 4005
	TypeIncompatible          Code = 4007
	TypeArgCountMismatch      Code = 4016
	TypeIntLiteralOutOfRange  Code = 4021

	// Внутренние ошибки проверяющего
	InternalInvariant Code = 9001

	IOLoadFileError Code = 10001
)

var codeDescription = map[Code]string{
	UnknownCode:               "unknown error",
	SynInvalidCharacter:       "invalid character",
	SynUnexpectedToken:        "unexpected token",
	SynInvalidNumber:          "invalid number literal",
	DeclDuplicate:             "duplicate declaration",
	NameUnboundVariable:       "unbound variable",
	NameUnboundType:           "unbound type",
	NameUnboundFunction:       "unbound function",
	TypeBuiltinOpNotSupported: "built-in operation not supported",
	TypeExpectedSingleType:    "expected a single type",
	TypeIncompatible:          "incompatible types",
	TypeArgCountMismatch:      "wrong number of type arguments",
	TypeIntLiteralOutOfRange:  "integer literal out of range",
	InternalInvariant:         "internal compiler error",
	IOLoadFileError:           "failed to load file",
}

// Category returns the category part of the code.
func (c Code) Category() Category {
	return Category(c / 1000)
}

// ID returns the namespaced identifier, e.g. "E04007".
func (c Code) ID() string {
	return fmt.Sprintf("E%02d%03d", uint16(c)/1000, uint16(c)%1000)
}

// Title returns the one-line summary printed next to the code.
func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
