package parser

import (
	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/token"
)

// parseFun: 'fun' Ident '(' (Ident ':' type),* ')' (':' type)? block
func (p *Parser) parseFun(mod ast.ModuleID) (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynUnexpectedToken, "expected function name")
	if !ok {
		return ast.NoItemID, false
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name")
	if !ok {
		return ast.NoItemID, false
	}

	var fn ast.FnItem
	for !p.atOr(token.RParen, token.EOF) {
		pname, ok := p.expect(token.Ident, diag.SynUnexpectedToken, "expected parameter name")
		if !ok {
			return ast.NoItemID, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after parameter name"); !ok {
			return ast.NoItemID, false
		}
		typ, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		fn.Params = append(fn.Params, ast.FnParam{
			Name:     pname.Text,
			NameSpan: pname.Span,
			Type:     typ,
			Span:     pname.Span.Cover(p.arenas.Types.Get(typ).Span),
		})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after parameters")
	if !ok {
		return ast.NoItemID, false
	}
	fn.ParamsSpan = open.Span.Cover(closeTok.Span)

	if p.at(token.Colon) {
		p.advance()
		if fn.Result, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}
	if fn.Body, ok = p.parseBlock(); !ok {
		return ast.NoItemID, false
	}
	span := kw.Span.Cover(fn.Body.Span)
	return p.arenas.Items.NewFn(span, name.Text, name.Span, mod, fn), true
}

// parseStruct: 'struct' Ident ('<' Ident,* '>')? '{' (Ident ':' type),* '}'
func (p *Parser) parseStruct(mod ast.ModuleID) (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynUnexpectedToken, "expected struct name")
	if !ok {
		return ast.NoItemID, false
	}
	var st ast.StructItem
	if p.at(token.Lt) {
		p.advance()
		for !p.atOr(token.Gt, token.EOF) {
			tp, ok := p.expect(token.Ident, diag.SynUnexpectedToken, "expected type parameter name")
			if !ok {
				return ast.NoItemID, false
			}
			st.TypeParams = append(st.TypeParams, ast.TypeParam{Name: tp.Text, Span: tp.Span})
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok := p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>' after type parameters"); !ok {
			return ast.NoItemID, false
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name"); !ok {
		return ast.NoItemID, false
	}
	for !p.atOr(token.RBrace, token.EOF) {
		fname, ok := p.expect(token.Ident, diag.SynUnexpectedToken, "expected field name")
		if !ok {
			return ast.NoItemID, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after field name"); !ok {
			return ast.NoItemID, false
		}
		typ, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		st.Fields = append(st.Fields, ast.StructField{Name: fname.Text, NameSpan: fname.Span, Type: typ})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	end, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' after struct fields")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewStruct(kw.Span.Cover(end.Span), name.Text, name.Span, mod, st), true
}
