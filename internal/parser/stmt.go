package parser

import (
	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/token"
)

// parseBlock: '{' stmt* expr? '}'
func (p *Parser) parseBlock() (ast.Block, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.Block{}, false
	}
	block := ast.Block{Span: open.Span}
	for !p.atOr(token.RBrace, token.EOF) {
		switch p.lx.Peek().Kind {
		case token.KwLet:
			if st, ok := p.parseLet(); ok {
				block.Stmts = append(block.Stmts, st)
				continue
			}
		case token.KwReturn:
			if st, ok := p.parseReturn(); ok {
				block.Stmts = append(block.Stmts, st)
				continue
			}
		case token.KwIf:
			if st, ok := p.parseIf(); ok {
				block.Stmts = append(block.Stmts, st)
				continue
			}
		default:
			expr, ok := p.parseExpr()
			if ok {
				if p.at(token.Semicolon) {
					semi := p.advance()
					span := p.arenas.Exprs.Get(expr).Span.Cover(semi.Span)
					block.Stmts = append(block.Stmts, p.arenas.Stmts.NewExpr(span, expr))
					continue
				}
				if p.at(token.RBrace) {
					block.Tail = expr
					continue
				}
				p.err(diag.SynUnexpectedToken, "expected ';' or '}' after expression, found "+p.lx.Peek().Kind.String())
			}
		}
		// восстановление: до ';' (съедаем) или '}'
		p.resyncUntil(token.Semicolon, token.RBrace)
		if p.at(token.Semicolon) {
			p.advance()
		}
	}
	end, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}'")
	if !ok {
		return block, false
	}
	block.Span = open.Span.Cover(end.Span)
	return block, true
}

// parseLet: 'let' Ident (':' type)? ('=' expr)? ';'
func (p *Parser) parseLet() (ast.StmtID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynUnexpectedToken, "expected binding name after 'let'")
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.LetStmt{Name: name.Text, NameSpan: name.Span}
	if p.at(token.Colon) {
		p.advance()
		if data.Type, ok = p.parseType(); !ok {
			return ast.NoStmtID, false
		}
	}
	if p.at(token.Assign) {
		p.advance()
		if data.Value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after let")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(kw.Span.Cover(semi.Span), data), true
}

// parseReturn: 'return' expr? ';'
func (p *Parser) parseReturn() (ast.StmtID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after return")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(semi.Span), value), true
}

// parseIf: 'if' '(' expr ')' block ('else' block)? ';'?
func (p *Parser) parseIf() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after condition"); !ok {
		return ast.NoStmtID, false
	}
	data := ast.IfStmt{Cond: cond}
	if data.Then, ok = p.parseBlock(); !ok {
		return ast.NoStmtID, false
	}
	span := kw.Span.Cover(data.Then.Span)
	if p.at(token.KwElse) {
		p.advance()
		elseBlock, ok := p.parseBlock()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Else = &elseBlock
		span = span.Cover(elseBlock.Span)
	}
	if p.at(token.Semicolon) {
		span = span.Cover(p.advance().Span)
	}
	return p.arenas.Stmts.NewIf(span, data), true
}
