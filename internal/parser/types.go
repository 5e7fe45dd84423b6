package parser

import (
	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/token"
)

// parseType: Ident ('<' type,* '>')? | '(' ')' | '(' type (',' type)+ ')'
func (p *Parser) parseType() (ast.TypeID, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		name := p.advance()
		span := name.Span
		var args []ast.TypeID
		if p.at(token.Lt) {
			p.advance()
			for !p.atOr(token.Gt, token.EOF) {
				arg, ok := p.parseType()
				if !ok {
					return ast.NoTypeID, false
				}
				args = append(args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			end, ok := p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>' after type arguments")
			if !ok {
				return ast.NoTypeID, false
			}
			span = span.Cover(end.Span)
		}
		return p.arenas.Types.NewPath(span, name.Text, name.Span, args), true

	case token.LParen:
		open := p.advance()
		var elems []ast.TypeID
		for !p.atOr(token.RParen, token.EOF) {
			elem, ok := p.parseType()
			if !ok {
				return ast.NoTypeID, false
			}
			elems = append(elems, elem)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		end, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' in type")
		if !ok {
			return ast.NoTypeID, false
		}
		if len(elems) == 1 {
			return elems[0], true
		}
		return p.arenas.Types.NewTuple(open.Span.Cover(end.Span), elems), true
	}
	p.err(diag.SynUnexpectedToken, "expected type, found "+p.lx.Peek().Kind.String())
	return ast.NoTypeID, false
}
