package types

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrEscapedTypeVar reports a type variable that survived past the statement
// that created it. It is a checker defect, never a user diagnostic.
var ErrEscapedTypeVar = errors.New("type variable escaped its statement")

// MismatchError is returned when two types cannot be unified.
type MismatchError struct {
	Left, Right TypeID
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cannot unify types #%d and #%d", e.Left, e.Right)
}

// ArityError is returned when two tuples have different lengths.
type ArityError struct {
	Left, Right       TypeID
	LeftLen, RightLen int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expression list of length %d is not compatible with length %d", e.LeftLen, e.RightLen)
}

type varCell struct {
	kind  VarKind
	id    TypeID // интернированный TypeVar
	bound TypeID // NoTypeID пока не связана
}

// Subst holds the type-variable bindings of one function body. A variable is
// bound at most once; only a failed Unify undoes its own bindings. Not safe
// for concurrent use.
type Subst struct {
	in   *Interner
	vars []varCell
	// trail: ячейки, связанные текущим Unify; откатываются при ошибке
	trail []int
}

// NewSubst creates an empty substitution over in.
func NewSubst(in *Interner) *Subst {
	return &Subst{in: in}
}

// Interner returns the interner the substitution works with.
func (s *Subst) Interner() *Interner { return s.in }

// NewVar allocates a fresh type variable.
func (s *Subst) NewVar(kind VarKind) TypeID {
	n, err := safecast.Conv[uint32](len(s.vars))
	if err != nil {
		panic(fmt.Errorf("type var overflow: %w", err))
	}
	id := s.in.Intern(MakeVar(kind, n))
	s.vars = append(s.vars, varCell{kind: kind, id: id})
	return id
}

func (s *Subst) cell(t Type) *varCell {
	if t.Kind != KindVar || int(t.Payload) >= len(s.vars) {
		return nil
	}
	return &s.vars[t.Payload]
}

// Resolve follows variable bindings until an unbound variable or a
// non-variable type is reached.
func (s *Subst) Resolve(id TypeID) TypeID {
	for {
		tt, ok := s.in.Lookup(id)
		if !ok || tt.Kind != KindVar {
			return id
		}
		c := s.cell(tt)
		if c == nil || c.bound == NoTypeID {
			return id
		}
		id = c.bound
	}
}

// Zonk returns id with every bound variable replaced, recursively.
func (s *Subst) Zonk(id TypeID) TypeID {
	id = s.Resolve(id)
	switch s.in.Kind(id) {
	case KindTuple:
		info, _ := s.in.TupleInfo(id)
		elems := make([]TypeID, len(info.Elems))
		changed := false
		for i, e := range info.Elems {
			elems[i] = s.Zonk(e)
			changed = changed || elems[i] != e
		}
		if changed {
			return s.in.RegisterTuple(elems)
		}
	case KindStruct:
		info, _ := s.in.StructInfo(id)
		args := make([]TypeID, len(info.TypeArgs))
		changed := false
		for i, a := range info.TypeArgs {
			args[i] = s.Zonk(a)
			changed = changed || args[i] != a
		}
		if changed {
			return s.in.RegisterStruct(info.Module, info.Name, args)
		}
	}
	return id
}

// HasVars reports whether the zonked form of id still contains variables.
func (s *Subst) HasVars(id TypeID) bool {
	id = s.Zonk(id)
	switch s.in.Kind(id) {
	case KindVar:
		return true
	case KindTuple:
		info, _ := s.in.TupleInfo(id)
		for _, e := range info.Elems {
			if s.HasVars(e) {
				return true
			}
		}
	case KindStruct:
		info, _ := s.in.StructInfo(id)
		for _, a := range info.TypeArgs {
			if s.HasVars(a) {
				return true
			}
		}
	}
	return false
}

// CheckResolved returns ErrEscapedTypeVar when id still mentions a variable.
func (s *Subst) CheckResolved(id TypeID) error {
	if s.HasVars(id) {
		return fmt.Errorf("%w: %s", ErrEscapedTypeVar, Label(s.in, s.Zonk(id)))
	}
	return nil
}

// Unify makes a and b equal, binding variables as needed, and returns the
// unified type. It never widens: u8 and u128 do not unify. Unknown unifies
// with anything without binding. Tuple length mismatch yields *ArityError,
// every other failure *MismatchError. A failed call leaves no bindings
// behind, even when some tuple elements or type arguments already unified.
func (s *Subst) Unify(a, b TypeID) (TypeID, error) {
	s.trail = s.trail[:0]
	res, err := s.unify(a, b)
	if err != nil {
		s.rollback()
	}
	return res, err
}

func (s *Subst) rollback() {
	for i := len(s.trail) - 1; i >= 0; i-- {
		s.vars[s.trail[i]].bound = NoTypeID
	}
	s.trail = s.trail[:0]
}

func (s *Subst) unify(a, b TypeID) (TypeID, error) {
	a, b = s.Resolve(a), s.Resolve(b)
	if a == b {
		return a, nil
	}
	ta, _ := s.in.Lookup(a)
	tb, _ := s.in.Lookup(b)

	switch {
	case ta.Kind == KindUnknown:
		return b, nil
	case tb.Kind == KindUnknown:
		return a, nil
	case ta.Kind == KindVar:
		return s.bindVar(ta, a, b, tb)
	case tb.Kind == KindVar:
		return s.bindVar(tb, b, a, ta)
	}

	mismatch := &MismatchError{Left: a, Right: b}
	if ta.Kind != tb.Kind {
		return NoTypeID, mismatch
	}
	switch ta.Kind {
	case KindTuple:
		la, _ := s.in.TupleInfo(a)
		lb, _ := s.in.TupleInfo(b)
		if len(la.Elems) != len(lb.Elems) {
			return NoTypeID, &ArityError{Left: a, Right: b, LeftLen: len(la.Elems), RightLen: len(lb.Elems)}
		}
		for i := range la.Elems {
			if _, err := s.unify(la.Elems[i], lb.Elems[i]); err != nil {
				return NoTypeID, mismatch
			}
		}
		return a, nil
	case KindStruct:
		sa, _ := s.in.StructInfo(a)
		sb, _ := s.in.StructInfo(b)
		if sa.Module != sb.Module || sa.Name != sb.Name || len(sa.TypeArgs) != len(sb.TypeArgs) {
			return NoTypeID, mismatch
		}
		for i := range sa.TypeArgs {
			if _, err := s.unify(sa.TypeArgs[i], sb.TypeArgs[i]); err != nil {
				return NoTypeID, mismatch
			}
		}
		return a, nil
	}
	// одинаковые примитивы интернируются в один TypeID, сюда попадают только разные
	return NoTypeID, mismatch
}

// bindVar binds the unbound variable v (descriptor tv) to other.
func (s *Subst) bindVar(tv Type, v, other TypeID, to Type) (TypeID, error) {
	c := s.cell(tv)
	if c == nil {
		return NoTypeID, &MismatchError{Left: v, Right: other}
	}
	if c.kind == VarInteger {
		// две целочисленные переменные связываются, не разрешаясь
		if to.Kind != KindUint && to.Kind != KindVar {
			return NoTypeID, &MismatchError{Left: v, Right: other}
		}
	}
	c.bound = other
	s.trail = append(s.trail, int(tv.Payload))
	return other, nil
}

// Unbound returns the still-unbound variables of the given kind, in creation order.
func (s *Subst) Unbound(kind VarKind) []TypeID {
	var out []TypeID
	for i := range s.vars {
		if s.vars[i].kind == kind && s.vars[i].bound == NoTypeID {
			out = append(out, s.vars[i].id)
		}
	}
	return out
}
