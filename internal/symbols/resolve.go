package symbols

import (
	"fmt"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
)

// ResolveOptions controls a resolve pass for a single AST file.
type ResolveOptions struct {
	Reporter diag.Reporter
}

// Result captures resolve artefacts for one file. Every identifier use that
// could be bound appears in Uses; every call with a known callee in Calls.
type Result struct {
	File    ast.FileID
	Symbols *Symbols
	Uses    map[ast.ExprID]SymbolID
	Calls   map[ast.ExprID]ast.ItemID
	Params  map[ast.ItemID][]SymbolID
	Locals  map[ast.StmtID]SymbolID
	// Items maps module -> item name -> item.
	Items map[ast.ModuleID]map[string]ast.ItemID
}

// Symbol returns the symbol bound to an identifier expression.
func (r *Result) Symbol(expr ast.ExprID) (*Symbol, SymbolID) {
	id, ok := r.Uses[expr]
	if !ok {
		return nil, NoSymbolID
	}
	return r.Symbols.Get(id), id
}

// LookupItem finds a module-level item by name.
func (r *Result) LookupItem(mod ast.ModuleID, name string) (ast.ItemID, bool) {
	id, ok := r.Items[mod][name]
	return id, ok
}

// ResolveFile walks the AST file and binds every name.
func ResolveFile(builder *ast.Builder, fileID ast.FileID, opts ResolveOptions) *Result {
	result := &Result{
		File:    fileID,
		Symbols: NewSymbols(0),
		Uses:    make(map[ast.ExprID]SymbolID),
		Calls:   make(map[ast.ExprID]ast.ItemID),
		Params:  make(map[ast.ItemID][]SymbolID),
		Locals:  make(map[ast.StmtID]SymbolID),
		Items:   make(map[ast.ModuleID]map[string]ast.ItemID),
	}
	file := builder.Files.Get(fileID)
	if file == nil {
		return result
	}

	fr := fileResolver{builder: builder, result: result, reporter: opts.Reporter}
	for _, modID := range file.Modules {
		fr.declareItems(modID)
	}
	for _, modID := range file.Modules {
		mod := builder.Files.Module(modID)
		for _, itemID := range mod.Items {
			if fn, ok := builder.Items.Fn(itemID); ok {
				fr.resolveFn(modID, itemID, fn)
			}
		}
	}
	return result
}

type fileResolver struct {
	builder  *ast.Builder
	result   *Result
	reporter diag.Reporter
	scopes   scopeStack
	module   ast.ModuleID
	fn       ast.ItemID
}

func (fr *fileResolver) report(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	if fr.reporter == nil {
		return nil
	}
	return diag.ReportError(fr.reporter, code, sp, msg)
}

func (fr *fileResolver) declareItems(modID ast.ModuleID) {
	mod := fr.builder.Files.Module(modID)
	names := make(map[string]ast.ItemID, len(mod.Items))
	for _, itemID := range mod.Items {
		item := fr.builder.Items.Get(itemID)
		if prev, dup := names[item.Name]; dup {
			prevItem := fr.builder.Items.Get(prev)
			fr.report(diag.DeclDuplicate, item.NameSpan,
				fmt.Sprintf("Duplicate definition for %s '%s' in module '%s'", item.Kind, item.Name, mod.Name)).
				WithSecondary(prevItem.NameSpan, "Previously defined here").
				Emit()
			continue
		}
		names[item.Name] = itemID
	}
	fr.result.Items[modID] = names
}

func (fr *fileResolver) resolveFn(modID ast.ModuleID, itemID ast.ItemID, fn *ast.FnItem) {
	fr.module, fr.fn = modID, itemID
	fr.scopes.push()
	defer fr.scopes.pop()

	params := make([]SymbolID, 0, len(fn.Params))
	for _, p := range fn.Params {
		id := fr.result.Symbols.New(Symbol{Name: p.Name, Kind: SymbolParam, Decl: p.NameSpan, Type: p.Type, Item: itemID})
		if prev, dup := fr.scopes.declare(p.Name, id); dup {
			fr.report(diag.DeclDuplicate, p.NameSpan, fmt.Sprintf("Duplicate parameter with name '%s'", p.Name)).
				WithSecondary(fr.result.Symbols.Get(prev).Decl, "Previously defined here").
				Emit()
		}
		params = append(params, id)
	}
	fr.result.Params[itemID] = params
	fr.resolveBlock(&fn.Body, false)
}

func (fr *fileResolver) resolveBlock(block *ast.Block, scoped bool) {
	if scoped {
		fr.scopes.push()
		defer fr.scopes.pop()
	}
	for _, stmtID := range block.Stmts {
		fr.resolveStmt(stmtID)
	}
	if block.Tail.IsValid() {
		fr.resolveExpr(block.Tail)
	}
}

func (fr *fileResolver) resolveStmt(id ast.StmtID) {
	stmts := fr.builder.Stmts
	switch stmts.Get(id).Kind {
	case ast.StmtLet:
		let, _ := stmts.Let(id)
		// инициализатор видит предыдущее связывание с тем же именем
		if let.Value.IsValid() {
			fr.resolveExpr(let.Value)
		}
		sym := fr.result.Symbols.New(Symbol{
			Name: let.Name, Kind: SymbolLocal, Decl: let.NameSpan,
			Type: let.Type, Item: fr.fn, Stmt: id,
		})
		fr.scopes.declare(let.Name, sym)
		fr.result.Locals[id] = sym
	case ast.StmtReturn:
		ret, _ := stmts.Return(id)
		if ret.Value.IsValid() {
			fr.resolveExpr(ret.Value)
		}
	case ast.StmtIf:
		ifs, _ := stmts.If(id)
		fr.resolveExpr(ifs.Cond)
		fr.resolveBlock(&ifs.Then, true)
		if ifs.Else != nil {
			fr.resolveBlock(ifs.Else, true)
		}
	case ast.StmtExpr:
		es, _ := stmts.Expr(id)
		fr.resolveExpr(es.Expr)
	}
}

func (fr *fileResolver) resolveExpr(id ast.ExprID) {
	exprs := fr.builder.Exprs
	expr := exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		sym := fr.scopes.lookup(data.Name)
		if !sym.IsValid() {
			fr.report(diag.NameUnboundVariable, expr.Span, fmt.Sprintf("Unbound variable '%s'", data.Name)).Emit()
			return
		}
		fr.result.Uses[id] = sym
	case ast.ExprLit:
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		fr.resolveExpr(data.Left)
		fr.resolveExpr(data.Right)
	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		fr.resolveExpr(data.Operand)
	case ast.ExprCall:
		data, _ := exprs.Call(id)
		for _, arg := range data.Args {
			fr.resolveExpr(arg)
		}
		callee, ok := fr.result.LookupItem(fr.module, data.Name)
		if !ok || fr.builder.Items.Get(callee).Kind != ast.ItemFn {
			mod := fr.builder.Files.Module(fr.module)
			fr.report(diag.NameUnboundFunction, data.NameSpan,
				fmt.Sprintf("Unbound function '%s' in current scope of module '%s'", data.Name, mod.Name)).Emit()
			return
		}
		fr.result.Calls[id] = callee
	case ast.ExprTuple:
		data, _ := exprs.Tuple(id)
		for _, e := range data.Elems {
			fr.resolveExpr(e)
		}
	case ast.ExprCast:
		data, _ := exprs.Cast(id)
		fr.resolveExpr(data.Value)
	case ast.ExprGroup:
		data, _ := exprs.Group(id)
		fr.resolveExpr(data.Inner)
	}
}
