package parser

import (
	"strings"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
	"movecheck/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precLogicalOr)
}

// parseBinaryExpr — Pratt-цикл по таблице приоритетов.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		prec, op := binaryOp(p.lx.Peek().Kind)
		if prec < minPrec {
			break // приоритет слишком низкий
		}
		opTok := p.advance()

		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}

		leftSpan := p.arenas.Exprs.Get(left).Span
		rightSpan := p.arenas.Exprs.Get(right).Span
		left = p.arenas.Exprs.NewBinary(leftSpan.Cover(rightSpan), op, opTok.Span, left, right)
	}
	return left, true
}

// parseUnaryExpr обрабатывает префиксы '!' и '-'.
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	var op ast.ExprUnaryOp
	switch p.lx.Peek().Kind {
	case token.Bang:
		op = ast.ExprUnaryNot
	case token.Minus:
		op = ast.ExprUnaryMinus
	default:
		return p.parsePrimary()
	}
	opTok := p.advance()
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	span := opTok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(span, op, operand), true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		value, suffix := splitIntSuffix(tok.Text)
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitInt, value, suffix), true

	case token.KwTrue:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitTrue, "true", ""), true

	case token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitFalse, "false", ""), true

	case token.At:
		at := p.advance()
		lit, ok := p.expect(token.IntLit, diag.SynUnexpectedToken, "expected address after '@'")
		if !ok {
			return ast.NoExprID, false
		}
		value, _ := splitIntSuffix(lit.Text)
		return p.arenas.Exprs.NewLiteral(at.Span.Cover(lit.Span), ast.ExprLitAddress, value, ""), true

	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.parseCall(tok)
		}
		return p.arenas.Exprs.NewIdent(tok.Span, tok.Text), true

	case token.LParen:
		return p.parseParen()
	}
	p.err(diag.SynUnexpectedToken, "expected expression, found "+tok.Kind.String())
	return ast.NoExprID, false
}

// parseCall: Ident '(' expr,* ')'
func (p *Parser) parseCall(name token.Token) (ast.ExprID, bool) {
	open := p.advance()
	args, end, ok := p.parseExprList()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewCall(name.Span.Cover(end), name.Text, name.Span, args, open.Span.Cover(end)), true
}

// parseParen различает (), (e), (e as T) и (e1, e2, ...).
func (p *Parser) parseParen() (ast.ExprID, bool) {
	open := p.advance()
	if p.at(token.RParen) {
		end := p.advance()
		return p.arenas.Exprs.NewTuple(open.Span.Cover(end.Span), nil), true
	}
	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	switch p.lx.Peek().Kind {
	case token.KwAs:
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		end, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after cast")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewCast(open.Span.Cover(end.Span), first, typ), true
	case token.Comma:
		p.advance()
		rest, end, ok := p.parseExprList()
		if !ok {
			return ast.NoExprID, false
		}
		elems := append([]ast.ExprID{first}, rest...)
		return p.arenas.Exprs.NewTuple(open.Span.Cover(end), elems), true
	}
	end, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')'")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewGroup(open.Span.Cover(end.Span), first), true
}

// parseExprList разбирает `expr,* ')'` после уже съеденной '(' или ','.
func (p *Parser) parseExprList() ([]ast.ExprID, source.Span, bool) {
	var out []ast.ExprID
	for !p.atOr(token.RParen, token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, source.Span{}, false
		}
		out = append(out, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	end, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')'")
	if !ok {
		return nil, source.Span{}, false
	}
	return out, end.Span, true
}

// splitIntSuffix: "1_000u64" -> ("1000", "u64"). Шестнадцатеричные цифры не содержат 'u'.
func splitIntSuffix(text string) (value, suffix string) {
	if i := strings.IndexByte(text, 'u'); i >= 0 {
		text, suffix = text[:i], text[i:]
	}
	return strings.ReplaceAll(text, "_", ""), suffix
}
