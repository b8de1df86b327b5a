package hir

import (
	"rustic/internal/source"
)

// StmtKind enumerates HIR statement kinds.
type StmtKind uint8

const (
	// StmtLet represents a local binding. A nil Value means the slot is
	// written later (synthesized temporaries for if-expressions).
	StmtLet StmtKind = iota
	// StmtAssign represents assignment to a resolved local.
	StmtAssign
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtIf represents an if/else statement.
	StmtIf
	// StmtLoop represents the canonical loop: condition check plus body.
	StmtLoop
	// StmtBreak represents a break statement.
	StmtBreak
	// StmtContinue represents a continue statement.
	StmtContinue
	// StmtReturn represents a return statement (always explicit in HIR).
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

// Stmt represents an HIR statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet.
type LetData struct {
	Local LocalID
	Value *Expr // nil when the slot is initialized by later assignments
}

func (LetData) stmtData() {}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Local LocalID
	Value *Expr
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

// LoopData holds data for StmtLoop. Cond is evaluated in the loop header;
// 'loop' bodies get a constant-true condition during desugaring.
type LoopData struct {
	Cond *Expr
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
