package hir

import (
	"rustic/internal/ast"
	"rustic/internal/source"
	"rustic/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents an integer or boolean literal.
	ExprLiteral ExprKind = iota
	// ExprVarRef represents a reference to a resolved local.
	ExprVarRef
	// ExprUnaryOp represents a unary operation.
	ExprUnaryOp
	// ExprBinaryOp represents a binary operation.
	ExprBinaryOp
	// ExprCall represents a call to a resolved function.
	ExprCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprUnaryOp:
		return "UnaryOp"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprCall:
		return "Call"
	default:
		return "Unknown"
	}
}

// Expr represents an HIR expression. Every expression carries the type
// assigned during building; block and if expressions are desugared away
// before HIR is produced.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralData holds data for ExprLiteral. Int holds the value for both
// integer and boolean literals (0 or 1 for bool).
type LiteralData struct {
	Int int64
}

func (LiteralData) exprData() {}

// VarRefData holds data for ExprVarRef.
type VarRefData struct {
	Local LocalID
}

func (VarRefData) exprData() {}

// UnaryData holds data for ExprUnaryOp.
type UnaryData struct {
	Op      ast.UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinaryOp. Logical && and || survive to
// this level and are lowered to control flow when building MIR.
type BinaryData struct {
	Op    ast.BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// CallData holds data for ExprCall. Callee indexes Module.Funcs.
type CallData struct {
	Callee int
	Args   []*Expr
}

func (CallData) exprData() {}
