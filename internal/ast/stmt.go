package ast

import (
	"movecheck/internal/source"
)

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtReturn
	StmtIf
	StmtExpr
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// Block is `{ stmt* tail? }`.
type Block struct {
	Span  source.Span
	Stmts []StmtID
	Tail  ExprID
}

type LetStmt struct {
	Name     string
	NameSpan source.Span
	Type     TypeID // NoTypeID без аннотации
	Value    ExprID // NoExprID без инициализатора
}

type ReturnStmt struct {
	Value ExprID
}

type IfStmt struct {
	Cond ExprID
	Then Block
	Else *Block
}

type ExprStmt struct {
	Expr ExprID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Lets    *Arena[LetStmt]
	Returns *Arena[ReturnStmt]
	Ifs     *Arena[IfStmt]
	Exprs   *Arena[ExprStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Lets:    NewArena[LetStmt](capHint),
		Returns: NewArena[ReturnStmt](capHint / 4),
		Ifs:     NewArena[IfStmt](capHint / 4),
		Exprs:   NewArena[ExprStmt](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewLet(span source.Span, data LetStmt) StmtID {
	return s.new(StmtLet, span, PayloadID(s.Lets.Allocate(data)))
}

func (s *Stmts) Let(id StmtID) (*LetStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, PayloadID(s.Returns.Allocate(ReturnStmt{Value: value})))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewIf(span source.Span, data IfStmt) StmtID {
	return s.new(StmtIf, span, PayloadID(s.Ifs.Allocate(data)))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil, false
	}
	return s.Ifs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, PayloadID(s.Exprs.Allocate(ExprStmt{Expr: expr})))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(st.Payload)), true
}
