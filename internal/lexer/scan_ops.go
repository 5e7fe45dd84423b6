package lexer

import (
	"movecheck/internal/token"
)

type opEntry struct {
	text string
	kind token.Kind
}

// Двухсимвольные операторы проверяются раньше односимвольных.
var twoByteOps = []opEntry{
	{"<<", token.Shl}, {">>", token.Shr}, {"&&", token.AndAnd}, {"||", token.OrOr},
	{"==", token.EqEq}, {"!=", token.BangEq}, {"<=", token.LtEq}, {">=", token.GtEq},
	{"::", token.ColonColon},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '&': token.Amp, '|': token.Pipe, '^': token.Caret,
	'!': token.Bang, '<': token.Lt, '>': token.Gt, '=': token.Assign,
	':': token.Colon, ';': token.Semicolon, ',': token.Comma, '@': token.At,
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
}

func (lx *Lexer) scanOperatorOrPunct() (token.Token, bool) {
	start := lx.cursor.Mark()
	b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	for _, op := range twoByteOps {
		if op.text[0] == b0 && op.text[1] == b1 {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return token.Token{Kind: op.kind, Span: lx.cursor.SpanFrom(start), Text: op.text}, true
		}
	}
	if kind, ok := oneByteOps[b0]; ok {
		lx.cursor.Bump()
		return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: string(b0)}, true
	}
	return token.Token{}, false
}
