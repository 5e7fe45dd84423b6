package types

import (
	"strings"
)

// Label returns a user-friendly label for a TypeID. Type variables are
// printed as-is; resolve them through Subst.Zonk first.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnknown:
		return "_"
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindUint:
		return tt.Width.Name()
	case KindVar:
		if tt.Var == VarInteger {
			return "integer"
		}
		return "_"
	case KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok || info == nil {
			return "(?)"
		}
		parts := make([]string, len(info.Elems))
		for i, elem := range info.Elems {
			parts[i] = labelDepth(typesIn, elem, depth+1)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindStruct:
		info, ok := typesIn.StructInfo(id)
		if !ok || info == nil {
			return "?"
		}
		name := info.Module + "::" + info.Name
		if len(info.TypeArgs) == 0 {
			return name
		}
		args := make([]string, len(info.TypeArgs))
		for i, arg := range info.TypeArgs {
			args[i] = labelDepth(typesIn, arg, depth+1)
		}
		return name + "<" + strings.Join(args, ", ") + ">"
	default:
		return "?"
	}
}

// Display renders a type the way diagnostics quote it: concrete types in
// single quotes ('u64'), a still-unresolved integer as the bare word integer.
func Display(typesIn *Interner, id TypeID) string {
	if tt, ok := typesIn.Lookup(id); ok && tt.Kind == KindVar && tt.Var == VarInteger {
		return "integer"
	}
	return "'" + Label(typesIn, id) + "'"
}
