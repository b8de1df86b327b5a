package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"rustic/internal/ast"
)

// FormatProgramPretty prints the AST as an indented tree, one node per
// line. The shape follows the grammar, not the lowered forms.
func FormatProgramPretty(w io.Writer, prog *ast.Program) error {
	p := &astPrinter{w: w}
	for _, fn := range prog.Items {
		p.printFunc(fn)
	}
	return p.err
}

type astPrinter struct {
	w     io.Writer
	depth int
	err   error
}

func (p *astPrinter) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), fmt.Sprintf(format, args...))
}

func (p *astPrinter) nested(fn func()) {
	p.depth++
	fn()
	p.depth--
}

func (p *astPrinter) printFunc(fn *ast.FuncDecl) {
	sig := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		sig[i] = param.Name + ": " + param.Type.Name
	}
	result := "()"
	if fn.HasResult {
		result = fn.Result.Name
	}
	p.line("Func %s(%s) -> %s", fn.Name, strings.Join(sig, ", "), result)
	p.nested(func() { p.printBlock(fn.Body) })
}

func (p *astPrinter) printBlock(b *ast.Block) {
	for i := range b.Stmts {
		p.printStmt(&b.Stmts[i])
	}
	if b.Tail != nil {
		p.line("Tail")
		p.nested(func() { p.printExpr(b.Tail) })
	}
}

func (p *astPrinter) printStmt(s *ast.Stmt) {
	switch d := s.Data.(type) {
	case ast.LetData:
		head := "Let " + d.Name
		if d.IsMut {
			head = "Let mut " + d.Name
		}
		if d.HasType {
			head += ": " + d.Type.Name
		}
		p.line("%s", head)
		if d.Init != nil {
			p.nested(func() { p.printExpr(d.Init) })
		}
	case ast.AssignData:
		p.line("Assign %s", d.Name)
		p.nested(func() { p.printExpr(d.Value) })
	case ast.ExprStmtData:
		p.line("ExprStmt")
		p.nested(func() { p.printExpr(d.Expr) })
	case ast.IfData:
		p.line("If")
		p.nested(func() {
			p.printExpr(d.Cond)
			p.line("Then")
			p.nested(func() { p.printBlock(d.Then) })
			if d.Else != nil {
				p.line("Else")
				p.nested(func() { p.printBlock(d.Else) })
			}
		})
	case ast.WhileData:
		p.line("While")
		p.nested(func() {
			p.printExpr(d.Cond)
			p.printBlock(d.Body)
		})
	case ast.LoopData:
		p.line("Loop")
		p.nested(func() { p.printBlock(d.Body) })
	case ast.ReturnData:
		p.line("Return")
		if d.Value != nil {
			p.nested(func() { p.printExpr(d.Value) })
		}
	default:
		p.line("%s", s.Kind)
	}
}

func (p *astPrinter) printExpr(e *ast.Expr) {
	switch d := e.Data.(type) {
	case ast.IntLitData:
		p.line("IntLit %s", d.Text)
	case ast.BoolLitData:
		p.line("BoolLit %v", d.Value)
	case ast.IdentData:
		p.line("Ident %s", d.Name)
	case ast.UnaryData:
		p.line("Unary %s", d.Op)
		p.nested(func() { p.printExpr(d.Operand) })
	case ast.BinaryData:
		p.line("Binary %s", d.Op)
		p.nested(func() {
			p.printExpr(d.Left)
			p.printExpr(d.Right)
		})
	case ast.CallData:
		p.line("Call %s", d.Name)
		p.nested(func() {
			for _, arg := range d.Args {
				p.printExpr(arg)
			}
		})
	case ast.BlockData:
		p.line("Block")
		p.nested(func() { p.printBlock(d.Block) })
	case ast.IfExprData:
		p.line("IfExpr")
		p.nested(func() {
			p.printExpr(d.Cond)
			p.printExpr(d.Then)
			p.printExpr(d.Else)
		})
	default:
		p.line("%s", e.Kind)
	}
}
