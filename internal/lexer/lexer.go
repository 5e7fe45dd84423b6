package lexer

import (
	"fmt"
	"unicode/utf8"

	"movecheck/internal/diag"
	"movecheck/internal/source"
	"movecheck/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	for {
		lx.skipTrivia()
		if lx.cursor.EOF() {
			return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		}

		ch := lx.cursor.Peek()
		switch {
		case isIdentStart(ch):
			return lx.scanIdentOrKeyword()
		case isDec(ch):
			return lx.scanNumber()
		}
		if tok, ok := lx.scanOperatorOrPunct(); ok {
			return tok
		}

		// неизвестный символ: репортим и пропускаем целиком
		start := lx.cursor.Mark()
		msg := lx.skipInvalid()
		lx.report(diag.SynInvalidCharacter, lx.cursor.SpanFrom(start), msg)
	}
}

// skipInvalid consumes one unexpected character (or one byte of broken
// UTF-8) and returns the message describing it.
func (lx *Lexer) skipInvalid() string {
	r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	if r == utf8.RuneError && size <= 1 {
		b := lx.cursor.Bump()
		return fmt.Sprintf("invalid UTF-8 byte 0x%02x", b)
	}
	for range size {
		lx.cursor.Bump()
	}
	return fmt.Sprintf("unexpected character %q", r)
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

// Tokenize lexes the whole file, EOF excluded.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}
