// Package hir provides the resolved, desugared intermediate representation.
//
// HIR sits between the AST and MIR layers. Every expression carries a
// resolved primitive TypeID and every variable reference is resolved to a
// per-function LocalID, so later stages never see names they cannot
// resolve. Desugaring is minimal but total: if-expressions become if
// statements writing a synthesized local, 'while' and 'loop' both become
// one canonical loop form with an explicit condition, and bare 'return;'
// is normalized to a return without value.
package hir

import (
	"rustic/internal/source"
	"rustic/internal/types"
)

// LocalID identifies a local variable or parameter within a function.
type LocalID uint32

// NoLocalID marks the absence of a local.
const NoLocalID LocalID = ^LocalID(0)

// Local is one entry in a function's local table: a parameter, a 'let'
// binding, or a synthesized temporary.
type Local struct {
	Name  string
	Type  types.TypeID
	IsMut bool
	Span  source.Span
}

// Param represents a function parameter. Params occupy the first entries
// of the local table, in declaration order.
type Param struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// Func represents an HIR function.
type Func struct {
	Name   string
	Params []Param
	Result types.TypeID
	Locals []Local
	Body   *Block
	Span   source.Span
}

// Module is the HIR for one compilation unit, functions in declaration
// order.
type Module struct {
	Funcs []*Func
}

// Block represents a sequence of statements in HIR.
type Block struct {
	Stmts []Stmt
	Span  source.Span
}

// IsEmpty returns true if the block has no statements.
func (b *Block) IsEmpty() bool {
	return b == nil || len(b.Stmts) == 0
}
