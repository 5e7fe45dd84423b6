package symbols

// scopeStack — лексические области видимости тела функции.
// Поиск идёт от внутренней области к внешней, let затеняет предыдущие имена.
type scopeStack struct {
	frames []map[string]SymbolID
}

func (s *scopeStack) push() {
	s.frames = append(s.frames, make(map[string]SymbolID))
}

func (s *scopeStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopeStack) declare(name string, id SymbolID) (prev SymbolID, dup bool) {
	top := s.frames[len(s.frames)-1]
	prev, dup = top[name]
	top[name] = id
	return prev, dup
}

func (s *scopeStack) lookup(name string) SymbolID {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if id, ok := s.frames[i][name]; ok {
			return id
		}
	}
	return NoSymbolID
}
