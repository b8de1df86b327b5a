package mir

import (
	"fmt"

	"rustic/internal/types"
)

// OperandKind enumerates operand kinds.
type OperandKind uint8

const (
	// OperandNone is the zero operand, valid only where an operand is
	// optional (value-less returns).
	OperandNone OperandKind = iota
	// OperandConst is a typed immediate.
	OperandConst
	// OperandReg reads a virtual register.
	OperandReg
)

// Operand is a value read by an instruction or terminator: a typed
// constant or a virtual register.
type Operand struct {
	Kind  OperandKind
	Type  types.TypeID
	Reg   ValueID
	Const int64
}

// ConstOperand builds a typed immediate.
func ConstOperand(ty types.TypeID, v int64) Operand {
	return Operand{Kind: OperandConst, Type: ty, Const: v, Reg: NoValueID}
}

// RegOperand builds a register read.
func RegOperand(ty types.TypeID, id ValueID) Operand {
	return Operand{Kind: OperandReg, Type: ty, Reg: id}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandConst:
		return fmt.Sprintf("%d", o.Const)
	case OperandReg:
		return fmt.Sprintf("%%v%d", o.Reg)
	default:
		return "<none>"
	}
}

// BinOp enumerates MIR binary operations. Logical && and || never appear
// here: they are lowered to branches.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShr
	BinCmpEq
	BinCmpNe
	BinCmpLt
	BinCmpLe
	BinCmpGt
	BinCmpGe
)

var binOpNames = map[BinOp]string{
	BinAdd:   "add",
	BinSub:   "sub",
	BinMul:   "mul",
	BinDiv:   "div",
	BinRem:   "rem",
	BinAnd:   "and",
	BinOr:    "or",
	BinXor:   "xor",
	BinShl:   "shl",
	BinShr:   "shr",
	BinCmpEq: "cmp.eq",
	BinCmpNe: "cmp.ne",
	BinCmpLt: "cmp.lt",
	BinCmpLe: "cmp.le",
	BinCmpGt: "cmp.gt",
	BinCmpGe: "cmp.ge",
}

func (op BinOp) String() string {
	if s, ok := binOpNames[op]; ok {
		return s
	}
	return "?"
}

// IsCompare reports whether the operation yields a bool from two
// same-typed operands.
func (op BinOp) IsCompare() bool {
	return op >= BinCmpEq && op <= BinCmpGe
}

// UnOp enumerates MIR unary operations.
type UnOp uint8

const (
	// UnNeg is integer negation.
	UnNeg UnOp = iota
	// UnNot is boolean negation.
	UnNot
)

func (op UnOp) String() string {
	switch op {
	case UnNeg:
		return "neg"
	case UnNot:
		return "not"
	default:
		return "?"
	}
}
