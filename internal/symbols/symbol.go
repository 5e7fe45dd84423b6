package symbols

import (
	"movecheck/internal/ast"
	"movecheck/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolStruct
	SymbolParam
	SymbolLocal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	case SymbolParam:
		return "param"
	case SymbolLocal:
		return "local"
	default:
		return "invalid"
	}
}

// Symbol is a declared name. For params and locals Type is the syntactic
// annotation (ast.NoTypeID for an unannotated let) and Decl is the name span.
type Symbol struct {
	Name string
	Kind SymbolKind
	Decl source.Span
	Type ast.TypeID
	Item ast.ItemID // объявляющая функция или сам item
	Stmt ast.StmtID // для SymbolLocal
}

// Symbols stores declared symbols in a compact arena.
type Symbols struct {
	data []Symbol
}

// NewSymbols creates a symbol arena with optional capacity hint.
func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
	}
}

// New stores sym and returns its ID.
func (s *Symbols) New(sym Symbol) SymbolID {
	s.data = append(s.data, sym)
	return SymbolID(len(s.data) - 1) //nolint:gosec // arena size bounded by AST size
}

// Get returns the symbol pointer or nil if ID is invalid.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of symbols excluding the sentinel.
func (s *Symbols) Len() int { return len(s.data) - 1 }
