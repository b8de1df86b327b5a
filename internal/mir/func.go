package mir

import (
	"rustic/internal/source"
	"rustic/internal/types"
)

// Slot is one stack slot: a parameter, a user binding, or a synthesized
// temporary. Slots mirror the HIR local table one to one.
type Slot struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// Func is the CFG for one function. Once lowering seals it, the function
// is immutable and only read by the emitter.
type Func struct {
	ID   FuncID
	Name string
	Span source.Span

	ParamCount int // slots [0, ParamCount) back the parameters
	Result     types.TypeID

	Slots  []Slot
	Blocks []Block
	Entry  BlockID

	// ValueCount is the number of virtual registers minted; register ids
	// are dense in [0, ValueCount).
	ValueCount int
}

// Block returns the block with the given id, or nil.
func (f *Func) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// Module is the MIR for one compilation unit, functions in declaration
// order; FuncID indexes this list.
type Module struct {
	Funcs []*Func
}

// Func returns the function with the given id, or nil.
func (m *Module) Func(id FuncID) *Func {
	if id < 0 || int(id) >= len(m.Funcs) {
		return nil
	}
	return m.Funcs[id]
}
