package lexer

import (
	"fmt"

	"movecheck/internal/diag"
	"movecheck/internal/token"
)

var intSuffixes = map[string]struct{}{
	"u8": {}, "u16": {}, "u32": {}, "u64": {}, "u128": {}, "u256": {},
}

// scanNumber: 123, 1_000, 0x1f, с опциональным суффиксом u8..u256.
// Text содержит литерал целиком, суффикс отделяет парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			if lx.cursor.Bump() != '_' {
				digits++
			}
		}
		if digits == 0 {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.SynInvalidNumber, sp, "expected hex digits after '0x'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
	} else {
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	// суффикс
	suffixStart := lx.cursor.Off
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if suffixStart != lx.cursor.Off {
		suffix := string(lx.file.Content[suffixStart:lx.cursor.Off])
		if _, ok := intSuffixes[suffix]; !ok {
			lx.report(diag.SynInvalidNumber, sp, fmt.Sprintf("invalid integer suffix '%s'", suffix))
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
}
