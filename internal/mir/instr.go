package mir

import (
	"rustic/internal/types"
)

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	// InstrStore writes an operand into a stack slot.
	InstrStore InstrKind = iota
	// InstrLoad reads a stack slot into a fresh register.
	InstrLoad
	// InstrBinOp computes a binary operation into a fresh register.
	InstrBinOp
	// InstrUnOp computes a unary operation into a fresh register.
	InstrUnOp
	// InstrCall invokes a module function.
	InstrCall
)

// Instr is one non-terminator instruction. Kind selects which payload
// field is meaningful.
type Instr struct {
	Kind InstrKind

	Store StoreInstr
	Load  LoadInstr
	Bin   BinInstr
	Un    UnInstr
	Call  CallInstr
}

type StoreInstr struct {
	Slot SlotID
	Val  Operand
}

type LoadInstr struct {
	Dst  ValueID
	Type types.TypeID
	Slot SlotID
}

type BinInstr struct {
	Dst  ValueID
	Type types.TypeID // result type; the operand type lives on the operands
	Op   BinOp
	LHS  Operand
	RHS  Operand
}

type UnInstr struct {
	Dst     ValueID
	Type    types.TypeID
	Op      UnOp
	Operand Operand
}

type CallInstr struct {
	HasDst bool // false for unit-returning callees
	Dst    ValueID
	Type   types.TypeID
	Callee FuncID
	Args   []Operand
}

// Dst returns the register an instruction defines, or NoValueID.
func (ins *Instr) Dst() ValueID {
	switch ins.Kind {
	case InstrLoad:
		return ins.Load.Dst
	case InstrBinOp:
		return ins.Bin.Dst
	case InstrUnOp:
		return ins.Un.Dst
	case InstrCall:
		if ins.Call.HasDst {
			return ins.Call.Dst
		}
	}
	return NoValueID
}

// Uses returns the operands an instruction reads.
func (ins *Instr) Uses() []Operand {
	switch ins.Kind {
	case InstrStore:
		return []Operand{ins.Store.Val}
	case InstrBinOp:
		return []Operand{ins.Bin.LHS, ins.Bin.RHS}
	case InstrUnOp:
		return []Operand{ins.Un.Operand}
	case InstrCall:
		return ins.Call.Args
	}
	return nil
}
