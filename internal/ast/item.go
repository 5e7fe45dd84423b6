package ast

import (
	"movecheck/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "function"
	case ItemStruct:
		return "struct"
	}
	return "item"
}

type Item struct {
	Kind     ItemKind
	Span     source.Span
	Name     string
	NameSpan source.Span
	Module   ModuleID
	Payload  PayloadID
}

// FnParam is `name: T`.
type FnParam struct {
	Name     string
	NameSpan source.Span
	Type     TypeID
	Span     source.Span
}

type FnItem struct {
	Params     []FnParam
	ParamsSpan source.Span
	Result     TypeID // NoTypeID означает unit
	Body       Block
}

type TypeParam struct {
	Name string
	Span source.Span
}

type StructField struct {
	Name     string
	NameSpan source.Span
	Type     TypeID
}

type StructItem struct {
	TypeParams []TypeParam
	Fields     []StructField
}

type Items struct {
	Arena   *Arena[Item]
	Fns     *Arena[FnItem]
	Structs *Arena[StructItem]
}

// NewItems creates per-kind item arenas (default capacity 1<<7).
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Fns:     NewArena[FnItem](capHint),
		Structs: NewArena[StructItem](capHint / 4),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewFn(span source.Span, name string, nameSpan source.Span, module ModuleID, fn FnItem) ItemID {
	payload := i.Fns.Allocate(fn)
	return ItemID(i.Arena.Allocate(Item{
		Kind: ItemFn, Span: span, Name: name, NameSpan: nameSpan,
		Module: module, Payload: PayloadID(payload),
	}))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) NewStruct(span source.Span, name string, nameSpan source.Span, module ModuleID, st StructItem) ItemID {
	payload := i.Structs.Allocate(st)
	return ItemID(i.Arena.Allocate(Item{
		Kind: ItemStruct, Span: span, Name: name, NameSpan: nameSpan,
		Module: module, Payload: PayloadID(payload),
	}))
}

func (i *Items) Struct(id ItemID) (*StructItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemStruct {
		return nil, false
	}
	return i.Structs.Get(uint32(item.Payload)), true
}
