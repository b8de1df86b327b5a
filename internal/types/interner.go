package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	I32     TypeID
	I64     TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with the built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 8),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.I32 = in.Intern(MakeInt(Width32))
	in.builtins.I64 = in.Intern(MakeInt(Width64))
	return in
}

// Builtins returns TypeIDs for the primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

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
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// Name returns the spelling of a TypeID, or "<invalid>" for unknown ids.
func (in *Interner) Name(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	return t.Name()
}

// ByName resolves a source-level type spelling.
func (in *Interner) ByName(name string) (TypeID, bool) {
	switch name {
	case "()":
		return in.builtins.Unit, true
	case "bool":
		return in.builtins.Bool, true
	case "i32":
		return in.builtins.I32, true
	case "i64":
		return in.builtins.I64, true
	default:
		return NoTypeID, false
	}
}

// IsInt reports whether the id names an integer type.
func (in *Interner) IsInt(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindInt
}

// IsBool reports whether the id names the boolean type.
func (in *Interner) IsBool(id TypeID) bool {
	return id == in.builtins.Bool
}

// IsUnit reports whether the id names the unit type.
func (in *Interner) IsUnit(id TypeID) bool {
	return id == in.builtins.Unit
}
