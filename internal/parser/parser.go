package parser

import (
	"slices"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/lexer"
	"movecheck/internal/source"
	"movecheck/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	src      *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
}

// ParseFile — входная точка для разбора одного файла.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	start := source.Span{File: file.ID}
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(start),
		src:      file,
		opts:     opts,
		lastSpan: start,
	}
	p.parseModules()
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseModules — основной цикл верхнего уровня.
func (p *Parser) parseModules() {
	first := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if !p.at(token.KwModule) {
			p.err(diag.SynUnexpectedToken, "expected 'module', found "+p.lx.Peek().Kind.String())
			p.resyncUntil(token.KwModule)
			continue
		}
		p.parseModule()
	}
	if f := p.arenas.Files.Get(p.file); f != nil {
		f.Span = first.Cover(p.lastSpan)
	}
}

func (p *Parser) parseModule() {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynUnexpectedToken, "expected module name")
	if !ok {
		p.resyncUntil(token.KwModule)
		return
	}
	mod := p.arenas.NewModule(p.file, name.Text, name.Span, kw.Span)
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after module name"); !ok {
		p.resyncUntil(token.KwModule)
		return
	}
	for !p.atOr(token.RBrace, token.EOF) {
		var (
			item ast.ItemID
			ok   bool
		)
		switch p.lx.Peek().Kind {
		case token.KwFun:
			item, ok = p.parseFun(mod)
		case token.KwStruct:
			item, ok = p.parseStruct(mod)
		default:
			p.err(diag.SynUnexpectedToken, "expected 'fun' or 'struct', found "+p.lx.Peek().Kind.String())
			ok = false
		}
		if ok {
			p.arenas.PushItem(mod, item)
		} else {
			p.resyncUntil(token.KwFun, token.KwStruct, token.RBrace)
		}
	}
	end, _ := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close module")
	if m := p.arenas.Files.Module(mod); m != nil {
		m.Span = kw.Span.Cover(end.Span)
	}
}
