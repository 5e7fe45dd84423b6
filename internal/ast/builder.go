package ast

import (
	"movecheck/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder owns every arena of one parse. Node IDs are only meaningful
// together with the Builder that produced them.
type Builder struct {
	Files *Files
	Items *Items
	Stmts *Stmts
	Exprs *Exprs
	Types *TypeExprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Items: NewItems(hints.Items),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		Types: NewTypeExprs(hints.Items),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// NewModule registers a module and attaches it to file.
func (b *Builder) NewModule(file FileID, name string, nameSpan, span source.Span) ModuleID {
	id := ModuleID(b.Files.Modules.Allocate(Module{Name: name, NameSpan: nameSpan, Span: span, File: file}))
	if f := b.Files.Get(file); f != nil {
		f.Modules = append(f.Modules, id)
	}
	return id
}

// PushItem appends item to module's item list.
func (b *Builder) PushItem(module ModuleID, item ItemID) {
	if m := b.Files.Module(module); m != nil {
		m.Items = append(m.Items, item)
	}
}

// Functions returns every function item of file in declaration order.
func (b *Builder) Functions(file FileID) []ItemID {
	f := b.Files.Get(file)
	if f == nil {
		return nil
	}
	var out []ItemID
	for _, modID := range f.Modules {
		m := b.Files.Module(modID)
		for _, item := range m.Items {
			if it := b.Items.Get(item); it != nil && it.Kind == ItemFn {
				out = append(out, item)
			}
		}
	}
	return out
}
