// Package ast defines the syntax tree handed from the parser to the HIR
// builder. Nodes are grammar-shaped and untyped; name resolution and type
// assignment happen during HIR lowering.
package ast

import (
	"rustic/internal/source"
)

// Program is one parsed compilation unit.
type Program struct {
	Items []*FuncDecl
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type TypeRef
	Span source.Span
}

// FuncDecl is a function item.
type FuncDecl struct {
	Name      string
	Params    []Param
	HasResult bool
	Result    TypeRef // valid only when HasResult
	Body      *Block
	Span      source.Span
}

// TypeRef is a spelled-out type annotation, e.g. "i32" or "()".
type TypeRef struct {
	Name string
	Span source.Span
}

// Block is an ordered statement sequence with an optional trailing
// expression (the block's value).
type Block struct {
	Stmts []Stmt
	Tail  *Expr
	Span  source.Span
}

// StmtKind enumerates AST statement kinds.
type StmtKind uint8

const (
	// StmtLet represents a 'let' binding.
	StmtLet StmtKind = iota
	// StmtAssign represents 'name = expr;'.
	StmtAssign
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtIf represents an if/else statement.
	StmtIf
	// StmtWhile represents a while loop.
	StmtWhile
	// StmtLoop represents an unconditional 'loop'.
	StmtLoop
	// StmtBreak represents a break statement.
	StmtBreak
	// StmtContinue represents a continue statement.
	StmtContinue
	// StmtReturn represents a return statement.
	StmtReturn
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtAssign:
		return "Assign"
	case StmtExpr:
		return "Expr"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtLoop:
		return "Loop"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// Stmt is an AST statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific payloads.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet.
type LetData struct {
	Name    string
	IsMut   bool
	HasType bool
	Type    TypeRef
	Init    *Expr
}

func (LetData) stmtData() {}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Name     string
	NameSpan source.Span
	Value    *Expr
}

func (AssignData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// IfData holds data for StmtIf.
type IfData struct {
	Cond *Expr
	Then *Block
	Else *Block // nil if no else branch
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body *Block
}

func (WhileData) stmtData() {}

// LoopData holds data for StmtLoop.
type LoopData struct {
	Body *Block
}

func (LoopData) stmtData() {}

// BreakData holds data for StmtBreak.
type BreakData struct{}

func (BreakData) stmtData() {}

// ContinueData holds data for StmtContinue.
type ContinueData struct{}

func (ContinueData) stmtData() {}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare return
}

func (ReturnData) stmtData() {}
