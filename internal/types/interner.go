package types

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unknown TypeID
	Unit    TypeID
	Bool    TypeID
	Address TypeID
	U8      TypeID
	U16     TypeID
	U32     TypeID
	U64     TypeID
	U128    TypeID
	U256    TypeID
}

// Uint returns the builtin integer type of width w.
func (b Builtins) Uint(w Width) TypeID {
	switch w {
	case Width8:
		return b.U8
	case Width16:
		return b.U16
	case Width32:
		return b.U32
	case Width64:
		return b.U64
	case Width128:
		return b.U128
	case Width256:
		return b.U256
	}
	return NoTypeID
}

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// StructInfo identifies an instantiated struct type.
type StructInfo struct {
	Module   string
	Name     string
	TypeArgs []TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// It is safe for concurrent use.
type Interner struct {
	mu        sync.RWMutex
	types     []Type
	index     map[Type]TypeID
	composite map[string]TypeID // кортежи и структуры по структурному ключу
	tuples    []TupleInfo
	structs   []StructInfo
	builtins  Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:     make(map[Type]TypeID, 64),
		composite: make(map[string]TypeID, 16),
		tuples:    []TupleInfo{{}}, // reserve 0 as invalid sentinel
		structs:   []StructInfo{{}},
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Address = in.Intern(Type{Kind: KindAddress})
	in.builtins.U8 = in.Intern(MakeUint(Width8))
	in.builtins.U16 = in.Intern(MakeUint(Width16))
	in.builtins.U32 = in.Intern(MakeUint(Width32))
	in.builtins.U64 = in.Intern(MakeUint(Width64))
	in.builtins.U128 = in.Intern(MakeUint(Width128))
	in.builtins.U256 = in.Intern(MakeUint(Width256))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	in.mu.RLock()
	id, ok := in.index[t]
	in.mu.RUnlock()
	if ok {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage. Caller holds the write lock
// (or is the constructor).
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind is a shortcut for Lookup(id).Kind; unknown IDs report KindInvalid.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// RegisterTuple creates or finds the tuple with the given elements.
// An empty element list is unit.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	if len(elems) == 0 {
		return in.builtins.Unit
	}
	key := "t(" + joinIDs(elems) + ")"
	return in.registerComposite(key, func() Type {
		in.tuples = append(in.tuples, TupleInfo{Elems: cloneTypeArgs(elems)})
		return Type{Kind: KindTuple, Payload: in.lastSlot(len(in.tuples))}
	})
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple {
		return nil, false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

// RegisterStruct creates or finds the struct instantiation module::name<args>.
func (in *Interner) RegisterStruct(module, name string, args []TypeID) TypeID {
	key := "s(" + module + "::" + name + "<" + joinIDs(args) + ">)"
	return in.registerComposite(key, func() Type {
		in.structs = append(in.structs, StructInfo{Module: module, Name: name, TypeArgs: cloneTypeArgs(args)})
		return Type{Kind: KindStruct, Payload: in.lastSlot(len(in.structs))}
	})
}

// StructInfo returns the identity of a struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil, false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

func (in *Interner) registerComposite(key string, build func() Type) TypeID {
	in.mu.RLock()
	id, ok := in.composite[key]
	in.mu.RUnlock()
	if ok {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.composite[key]; ok {
		return id
	}
	id = in.internRaw(build())
	in.composite[key] = id
	return id
}

func (in *Interner) lastSlot(n int) uint32 {
	slot, err := safecast.Conv[uint32](n - 1)
	if err != nil {
		panic(fmt.Errorf("type info overflow: %w", err))
	}
	return slot
}

func joinIDs(ids []TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if len(args) == 0 {
		return nil
	}
	out := make([]TypeID, len(args))
	copy(out, args)
	return out
}
