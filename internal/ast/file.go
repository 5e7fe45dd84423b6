package ast

import (
	"movecheck/internal/source"
)

// Module is `module Name { items }`.
type Module struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	File     FileID
	Items    []ItemID
}

// File is one parsed source file.
type File struct {
	Source  source.FileID
	Span    source.Span
	Modules []ModuleID
}

type Files struct {
	Arena   *Arena[File]
	Modules *Arena[Module]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena:   NewArena[File](capHint),
		Modules: NewArena[Module](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Source: sp.File, Span: sp}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}

func (f *Files) Module(id ModuleID) *Module {
	return f.Modules.Get(uint32(id))
}
