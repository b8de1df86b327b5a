package ast

import (
	"rustic/internal/source"
)

// ExprKind enumerates AST expression kinds.
type ExprKind uint8

const (
	// ExprIntLit represents an integer literal.
	ExprIntLit ExprKind = iota
	// ExprBoolLit represents 'true' or 'false'.
	ExprBoolLit
	// ExprIdent represents a variable reference.
	ExprIdent
	// ExprUnary represents unary '-' and '!'.
	ExprUnary
	// ExprBinary represents infix binary operators.
	ExprBinary
	// ExprCall represents 'name(args)'.
	ExprCall
	// ExprBlock represents a block expression '{ ... }'.
	ExprBlock
	// ExprIf represents an if-expression 'if c { a } else { b }'.
	ExprIf
)

func (k ExprKind) String() string {
	switch k {
	case ExprIntLit:
		return "IntLit"
	case ExprBoolLit:
		return "BoolLit"
	case ExprIdent:
		return "Ident"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	case ExprBlock:
		return "Block"
	case ExprIf:
		return "If"
	default:
		return "Unknown"
	}
}

// Expr is an AST expression.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific payloads.
type ExprData interface {
	exprData()
}

// IntLitData holds data for ExprIntLit. Text is the literal with
// separators removed.
type IntLitData struct {
	Text string
}

func (IntLitData) exprData() {}

// BoolLitData holds data for ExprBoolLit.
type BoolLitData struct {
	Value bool
}

func (BoolLitData) exprData() {}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name string
}

func (IdentData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Name     string
	NameSpan source.Span
	Args     []*Expr
}

func (CallData) exprData() {}

// BlockData holds data for ExprBlock.
type BlockData struct {
	Block *Block
}

func (BlockData) exprData() {}

// IfExprData holds data for ExprIf. Both arms are block expressions; the
// else arm is mandatory when the if is used as a value.
type IfExprData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (IfExprData) exprData() {}
