package sema

import (
	"fmt"

	"movecheck/internal/ast"
	"movecheck/internal/diag"
	"movecheck/internal/source"
	"movecheck/internal/symbols"
	"movecheck/internal/types"
)

// typeLowerer turns syntactic types into interned ones. Failures are
// reported and lowered to Unknown.
type typeLowerer struct {
	builder  *ast.Builder
	syms     *symbols.Result
	types    *types.Interner
	reporter diag.Reporter
	module   ast.ModuleID
	// typeParams — параметры типа структуры, поля которой сейчас проверяются
	typeParams map[string]struct{}
}

func (tl *typeLowerer) lower(id ast.TypeID) types.TypeID {
	b := tl.types.Builtins()
	if !id.IsValid() {
		return b.Unit
	}
	te := tl.builder.Types.Get(id)
	if te == nil {
		return b.Unknown
	}
	switch te.Kind {
	case ast.TypeExprTuple:
		elems := make([]types.TypeID, len(te.Args))
		for i, arg := range te.Args {
			elems[i] = tl.lower(arg)
		}
		return tl.types.RegisterTuple(elems)
	case ast.TypeExprPath:
		return tl.lowerPath(te)
	}
	return b.Unknown
}

func (tl *typeLowerer) lowerPath(te *ast.TypeExpr) types.TypeID {
	b := tl.types.Builtins()
	if builtin, ok := tl.builtin(te.Name); ok {
		if len(te.Args) != 0 {
			tl.argCount(te, 0)
			return b.Unknown
		}
		return builtin
	}
	if _, ok := tl.typeParams[te.Name]; ok {
		if len(te.Args) != 0 {
			tl.argCount(te, 0)
		}
		return b.Unknown
	}

	itemID, ok := tl.syms.LookupItem(tl.module, te.Name)
	var st *ast.StructItem
	if ok {
		st, ok = tl.builder.Items.Struct(itemID)
	}
	if !ok {
		diag.ReportError(tl.reporter, diag.NameUnboundType, te.NameSpan,
			fmt.Sprintf("Unbound type '%s' in current scope", te.Name)).Emit()
		return b.Unknown
	}
	if len(te.Args) != len(st.TypeParams) {
		tl.argCount(te, len(st.TypeParams))
		return b.Unknown
	}
	args := make([]types.TypeID, len(te.Args))
	for i, arg := range te.Args {
		args[i] = tl.lower(arg)
	}
	mod := tl.builder.Files.Module(tl.module)
	modName := ""
	if mod != nil {
		modName = mod.Name
	}
	return tl.types.RegisterStruct(modName, te.Name, args)
}

func (tl *typeLowerer) builtin(name string) (types.TypeID, bool) {
	b := tl.types.Builtins()
	switch name {
	case "bool":
		return b.Bool, true
	case "address":
		return b.Address, true
	}
	if w, ok := types.WidthByName(name); ok {
		return b.Uint(w), true
	}
	return types.NoTypeID, false
}

func (tl *typeLowerer) argCount(te *ast.TypeExpr, want int) {
	diag.ReportError(tl.reporter, diag.TypeArgCountMismatch, te.Span,
		fmt.Sprintf("Invalid instantiation of '%s'. Expected %d type argument(s) but got %d", te.Name, want, len(te.Args))).Emit()
}

// paramSig is a lowered function parameter.
type paramSig struct {
	Name     string
	Type     types.TypeID
	TypeSpan source.Span
}

// fnSig is the lowered signature of a function. ResultSpan is the result
// annotation, or the function name when the result is implicitly unit.
type fnSig struct {
	Name       string
	Module     ast.ModuleID
	Params     []paramSig
	ParamsSpan source.Span
	Result     types.TypeID
	ResultSpan source.Span
	HasResult  bool
}

// lowerSignatures lowers every function signature and struct field of the
// file. It runs before any body is checked.
func lowerSignatures(builder *ast.Builder, fileID ast.FileID, syms *symbols.Result, in *types.Interner, reporter diag.Reporter) map[ast.ItemID]*fnSig {
	sigs := make(map[ast.ItemID]*fnSig)
	file := builder.Files.Get(fileID)
	if file == nil {
		return sigs
	}
	for _, modID := range file.Modules {
		mod := builder.Files.Module(modID)
		if mod == nil {
			continue
		}
		tl := &typeLowerer{builder: builder, syms: syms, types: in, reporter: reporter, module: modID}
		for _, itemID := range mod.Items {
			item := builder.Items.Get(itemID)
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemStruct:
				st, ok := builder.Items.Struct(itemID)
				if !ok {
					continue
				}
				tl.typeParams = make(map[string]struct{}, len(st.TypeParams))
				for _, tp := range st.TypeParams {
					tl.typeParams[tp.Name] = struct{}{}
				}
				for _, field := range st.Fields {
					tl.lower(field.Type)
				}
				tl.typeParams = nil
			case ast.ItemFn:
				fn, ok := builder.Items.Fn(itemID)
				if !ok {
					continue
				}
				sig := &fnSig{Name: item.Name, Module: modID, ParamsSpan: fn.ParamsSpan}
				for _, p := range fn.Params {
					sig.Params = append(sig.Params, paramSig{
						Name:     p.Name,
						Type:     tl.lower(p.Type),
						TypeSpan: typeSpan(builder, p.Type, p.NameSpan),
					})
				}
				sig.Result = tl.lower(fn.Result)
				sig.ResultSpan = typeSpan(builder, fn.Result, item.NameSpan)
				sig.HasResult = fn.Result.IsValid()
				sigs[itemID] = sig
			}
		}
	}
	return sigs
}

func typeSpan(builder *ast.Builder, id ast.TypeID, fallback source.Span) source.Span {
	if te := builder.Types.Get(id); te != nil {
		return te.Span
	}
	return fallback
}
