package parser

import (
	"movecheck/internal/ast"
	"movecheck/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precEquality       = 4  // == !=
	precComparison     = 5  // < <= > >=
	precBitwiseOr      = 6  // |
	precBitwiseXor     = 7  // ^
	precBitwiseAnd     = 8  // &
	precShift          = 9  // << >>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
)

type binaryEntry struct {
	prec int
	op   ast.ExprBinaryOp
}

// все бинарные операторы левоассоциативны
var binaryTable = map[token.Kind]binaryEntry{
	token.OrOr:    {precLogicalOr, ast.ExprBinaryLogicalOr},
	token.AndAnd:  {precLogicalAnd, ast.ExprBinaryLogicalAnd},
	token.EqEq:    {precEquality, ast.ExprBinaryEq},
	token.BangEq:  {precEquality, ast.ExprBinaryNotEq},
	token.Lt:      {precComparison, ast.ExprBinaryLess},
	token.LtEq:    {precComparison, ast.ExprBinaryLessEq},
	token.Gt:      {precComparison, ast.ExprBinaryGreater},
	token.GtEq:    {precComparison, ast.ExprBinaryGreaterEq},
	token.Pipe:    {precBitwiseOr, ast.ExprBinaryBitOr},
	token.Caret:   {precBitwiseXor, ast.ExprBinaryBitXor},
	token.Amp:     {precBitwiseAnd, ast.ExprBinaryBitAnd},
	token.Shl:     {precShift, ast.ExprBinaryShiftLeft},
	token.Shr:     {precShift, ast.ExprBinaryShiftRight},
	token.Plus:    {precAdditive, ast.ExprBinaryAdd},
	token.Minus:   {precAdditive, ast.ExprBinarySub},
	token.Star:    {precMultiplicative, ast.ExprBinaryMul},
	token.Slash:   {precMultiplicative, ast.ExprBinaryDiv},
	token.Percent: {precMultiplicative, ast.ExprBinaryMod},
}

// binaryOp возвращает приоритет и оператор; -1 если токен не бинарный оператор.
func binaryOp(kind token.Kind) (int, ast.ExprBinaryOp) {
	e, ok := binaryTable[kind]
	if !ok {
		return -1, 0
	}
	return e.prec, e.op
}
