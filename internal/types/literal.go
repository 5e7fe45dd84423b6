package types

import (
	"fmt"
	"math/big"
	"strings"
)

// DefaultIntegerWidth is the width an untyped integer literal takes when
// nothing in its statement forces a choice.
const DefaultIntegerWidth = Width64

// NewIntLiteral returns a fresh variable for an untyped integer literal.
// It binds to a concrete width on first contact with an integer type and
// stays linked (not resolved) when combined with another untyped literal.
func (s *Subst) NewIntLiteral() TypeID {
	return s.NewVar(VarInteger)
}

// DefaultIntegers binds every still-unbound integer variable to u64 and
// reports how many were defaulted. Called at the end of each statement.
func (s *Subst) DefaultIntegers() int {
	def := s.in.Builtins().Uint(DefaultIntegerWidth)
	n := 0
	for i := range s.vars {
		c := &s.vars[i]
		if c.kind == VarInteger && c.bound == NoTypeID {
			c.bound = def
			n++
		}
	}
	return n
}

// IsUnresolvedInteger reports whether id is still an unbound integer variable.
func (s *Subst) IsUnresolvedInteger(id TypeID) bool {
	tt, ok := s.in.Lookup(s.Resolve(id))
	return ok && tt.Kind == KindVar && tt.Var == VarInteger
}

// ParseIntLiteral parses a decimal or 0x-prefixed literal without suffix.
func ParseIntLiteral(text string) (*big.Int, error) {
	v := new(big.Int)
	base := 10
	digits := text
	if rest, ok := strings.CutPrefix(strings.ToLower(text), "0x"); ok {
		base, digits = 16, rest
	}
	if _, ok := v.SetString(digits, base); !ok || digits == "" {
		return nil, fmt.Errorf("invalid integer literal %q", text)
	}
	return v, nil
}

var maxUintCache = func() map[Width]*big.Int {
	out := make(map[Width]*big.Int, len(UintWidths))
	one := big.NewInt(1)
	for _, w := range UintWidths {
		m := new(big.Int).Lsh(one, uint(w))
		out[w] = m.Sub(m, one)
	}
	return out
}()

// MaxUint returns the largest value representable in width w.
func MaxUint(w Width) *big.Int {
	return new(big.Int).Set(maxUintCache[w])
}

// FitsWidth reports whether v is representable as an unsigned integer of width w.
func FitsWidth(v *big.Int, w Width) bool {
	limit, ok := maxUintCache[w]
	return ok && v.Sign() >= 0 && v.Cmp(limit) <= 0
}
