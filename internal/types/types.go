// Package types holds the primitive type set and its interner. The
// language surface is monomorphic, so a type is fully described by its
// kind plus an integer width.
package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	// KindInvalid is the sentinel for an unassigned type.
	KindInvalid Kind = iota
	// KindUnit is the empty type '()'.
	KindUnit
	// KindBool is the boolean type.
	KindBool
	// KindInt is a signed fixed-width integer.
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Width is an integer bit width.
type Width uint16

const (
	// Width32 is a 32-bit integer.
	Width32 Width = 32
	// Width64 is a 64-bit integer.
	Width64 Width = 64
)

// Type is a structural descriptor. Width is meaningful only for KindInt.
type Type struct {
	Kind  Kind
	Width Width
}

// MakeInt builds an integer descriptor of the given width.
func MakeInt(w Width) Type {
	return Type{Kind: KindInt, Width: w}
}

// Name returns the source-level spelling of the type.
func (t Type) Name() string {
	switch t.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindInt:
		return fmt.Sprintf("i%d", t.Width)
	default:
		return "<invalid>"
	}
}
