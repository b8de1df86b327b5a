// Package mir defines the control-flow-graph representation and its
// lowering from HIR. A function is an arena of basic blocks; straight-line
// instructions compute into single-definition virtual registers, while
// named variables live in stack slots accessed through explicit Load and
// Store, so no SSA phi construction is ever needed.
package mir

// BlockID indexes a function's block arena.
type BlockID int32

// NoBlockID marks the absence of a block.
const NoBlockID BlockID = -1

// SlotID indexes a function's stack slot table. Slots have no
// single-definition constraint; parameters occupy the first entries.
type SlotID int32

// NoSlotID marks the absence of a slot.
const NoSlotID SlotID = -1

// ValueID names a virtual register. Each register has exactly one
// definition site.
type ValueID int32

// NoValueID marks the absence of a register.
const NoValueID ValueID = -1

// FuncID indexes the module's function list.
type FuncID int32

// NoFuncID marks the absence of a function.
const NoFuncID FuncID = -1
