package hir

import (
	"fmt"
	"math"
	"strconv"

	"rustic/internal/ast"
	"rustic/internal/diag"
	"rustic/internal/source"
	"rustic/internal/types"
)

// buildExpr lowers an AST expression. expected is a hint used to size
// unsuffixed integer literals; it does not coerce, callers still check the
// resulting type. Block and if expressions are desugared here: their
// statements are hoisted into the statement list currently under
// construction and their value becomes a plain expression.
func (fb *funcBuilder) buildExpr(e *ast.Expr, expected types.TypeID) (*Expr, error) {
	switch e.Kind {
	case ast.ExprIntLit:
		return fb.buildIntLit(e, expected)
	case ast.ExprBoolLit:
		data := e.Data.(ast.BoolLitData)
		v := int64(0)
		if data.Value {
			v = 1
		}
		return &Expr{
			Kind: ExprLiteral, Type: fb.b.in.Builtins().Bool, Span: e.Span,
			Data: LiteralData{Int: v},
		}, nil
	case ast.ExprIdent:
		data := e.Data.(ast.IdentData)
		id, ok := fb.lookup(data.Name)
		if !ok {
			return nil, fb.b.fail(diag.LowUnresolvedName, e.Span,
				fmt.Sprintf("cannot find %q in this scope", data.Name))
		}
		return &Expr{
			Kind: ExprVarRef, Type: fb.fn.Locals[id].Type, Span: e.Span,
			Data: VarRefData{Local: id},
		}, nil
	case ast.ExprUnary:
		return fb.buildUnary(e, expected)
	case ast.ExprBinary:
		return fb.buildBinary(e, expected)
	case ast.ExprCall:
		return fb.buildCall(e)
	case ast.ExprBlock:
		return fb.buildBlockExpr(e, expected)
	case ast.ExprIf:
		return fb.buildIfExpr(e, expected)
	default:
		return nil, fb.b.fail(diag.LowUnsupportedConstruct, e.Span,
			fmt.Sprintf("cannot lower %s expression", e.Kind))
	}
}

func (fb *funcBuilder) buildIntLit(e *ast.Expr, expected types.TypeID) (*Expr, error) {
	data := e.Data.(ast.IntLitData)
	ty := fb.b.in.Builtins().I32
	if fb.b.in.IsInt(expected) {
		ty = expected
	}
	v, err := strconv.ParseInt(data.Text, 10, 64)
	if err != nil {
		return nil, fb.b.fail(diag.LowBadLiteral, e.Span,
			fmt.Sprintf("integer literal %q does not fit in %s", data.Text, fb.b.in.Name(ty)))
	}
	if ty == fb.b.in.Builtins().I32 && v > math.MaxInt32 {
		return nil, fb.b.fail(diag.LowBadLiteral, e.Span,
			fmt.Sprintf("integer literal %q does not fit in i32", data.Text))
	}
	return &Expr{Kind: ExprLiteral, Type: ty, Span: e.Span, Data: LiteralData{Int: v}}, nil
}

func (fb *funcBuilder) buildUnary(e *ast.Expr, expected types.TypeID) (*Expr, error) {
	data := e.Data.(ast.UnaryData)
	switch data.Op {
	case ast.UnaryNeg:
		hint := types.NoTypeID
		if fb.b.in.IsInt(expected) {
			hint = expected
		}
		operand, err := fb.buildExpr(data.Operand, hint)
		if err != nil {
			return nil, err
		}
		if !fb.b.in.IsInt(operand.Type) {
			return nil, fb.b.fail(diag.LowTypeMismatch, data.Operand.Span,
				fmt.Sprintf("unary '-' needs an integer, found %s", fb.b.in.Name(operand.Type)))
		}
		return &Expr{
			Kind: ExprUnaryOp, Type: operand.Type, Span: e.Span,
			Data: UnaryData{Op: ast.UnaryNeg, Operand: operand},
		}, nil
	case ast.UnaryNot:
		operand, err := fb.buildExpr(data.Operand, fb.b.in.Builtins().Bool)
		if err != nil {
			return nil, err
		}
		if !fb.b.in.IsBool(operand.Type) {
			return nil, fb.b.fail(diag.LowTypeMismatch, data.Operand.Span,
				fmt.Sprintf("unary '!' needs 'bool', found %s", fb.b.in.Name(operand.Type)))
		}
		return &Expr{
			Kind: ExprUnaryOp, Type: operand.Type, Span: e.Span,
			Data: UnaryData{Op: ast.UnaryNot, Operand: operand},
		}, nil
	default:
		return nil, fb.b.fail(diag.LowUnsupportedConstruct, e.Span,
			fmt.Sprintf("cannot lower unary operator %s", data.Op))
	}
}

func (fb *funcBuilder) buildBinary(e *ast.Expr, expected types.TypeID) (*Expr, error) {
	data := e.Data.(ast.BinaryData)
	if data.Op.IsLogical() {
		return fb.buildLogical(e, data)
	}

	hint := types.NoTypeID
	if !data.Op.IsComparison() && fb.b.in.IsInt(expected) {
		hint = expected
	}
	left, err := fb.buildExpr(data.Left, hint)
	if err != nil {
		return nil, err
	}
	captured, right, err := fb.buildCaptured(data.Right, left.Type)
	if err != nil {
		return nil, err
	}
	if len(captured) > 0 {
		// The right operand hoisted statements out of a block or if
		// expression. Pin the left operand's value first so evaluation
		// stays left to right.
		left = fb.pin(left)
		fb.emitAll(captured)
	}
	if right.Type != left.Type {
		return nil, fb.typeMismatch(data.Right.Span, left.Type, right.Type)
	}

	resType := left.Type
	switch {
	case data.Op.IsComparison():
		if data.Op == ast.BinEq || data.Op == ast.BinNe {
			if !fb.b.in.IsInt(left.Type) && !fb.b.in.IsBool(left.Type) {
				return nil, fb.b.fail(diag.LowTypeMismatch, e.Span,
					fmt.Sprintf("operator %s cannot compare %s values", data.Op, fb.b.in.Name(left.Type)))
			}
		} else if !fb.b.in.IsInt(left.Type) {
			return nil, fb.b.fail(diag.LowTypeMismatch, e.Span,
				fmt.Sprintf("operator %s needs integer operands, found %s", data.Op, fb.b.in.Name(left.Type)))
		}
		resType = fb.b.in.Builtins().Bool
	default:
		if !fb.b.in.IsInt(left.Type) {
			return nil, fb.b.fail(diag.LowTypeMismatch, e.Span,
				fmt.Sprintf("operator %s needs integer operands, found %s", data.Op, fb.b.in.Name(left.Type)))
		}
	}

	return &Expr{
		Kind: ExprBinaryOp, Type: resType, Span: e.Span,
		Data: BinaryData{Op: data.Op, Left: left, Right: right},
	}, nil
}

// buildLogical lowers && and ||. The operators normally survive to HIR and
// branch during MIR lowering. When the right operand hoists statements
// (block or if expression inside it), those statements must stay on the
// conditional path, so the whole operator is rewritten to an if statement
// writing a synthesized bool temporary instead.
func (fb *funcBuilder) buildLogical(e *ast.Expr, data ast.BinaryData) (*Expr, error) {
	boolT := fb.b.in.Builtins().Bool
	left, err := fb.buildExpr(data.Left, boolT)
	if err != nil {
		return nil, err
	}
	if !fb.b.in.IsBool(left.Type) {
		return nil, fb.b.fail(diag.LowTypeMismatch, data.Left.Span,
			fmt.Sprintf("operator %s needs 'bool' operands, found %s", data.Op, fb.b.in.Name(left.Type)))
	}
	captured, right, err := fb.buildCaptured(data.Right, boolT)
	if err != nil {
		return nil, err
	}
	if !fb.b.in.IsBool(right.Type) {
		return nil, fb.b.fail(diag.LowTypeMismatch, data.Right.Span,
			fmt.Sprintf("operator %s needs 'bool' operands, found %s", data.Op, fb.b.in.Name(right.Type)))
	}

	if len(captured) == 0 {
		return &Expr{
			Kind: ExprBinaryOp, Type: boolT, Span: e.Span,
			Data: BinaryData{Op: data.Op, Left: left, Right: right},
		}, nil
	}

	tmp := fb.newTemp("sc", boolT, e.Span)
	rhsArm := &Block{Span: data.Right.Span, Stmts: captured}
	rhsArm.Stmts = append(rhsArm.Stmts, Stmt{
		Kind: StmtAssign, Span: data.Right.Span,
		Data: AssignData{Local: tmp, Value: right},
	})
	shortVal := int64(0)
	if data.Op == ast.BinLogicalOr {
		shortVal = 1
	}
	shortArm := &Block{Span: e.Span, Stmts: []Stmt{{
		Kind: StmtAssign, Span: e.Span,
		Data: AssignData{Local: tmp, Value: fb.boolLit(shortVal, e.Span)},
	}}}

	ifData := IfData{Cond: left, Then: rhsArm, Else: shortArm}
	if data.Op == ast.BinLogicalOr {
		ifData.Then, ifData.Else = shortArm, rhsArm
	}
	fb.emit(Stmt{Kind: StmtIf, Span: e.Span, Data: ifData})
	return fb.varRef(tmp, e.Span), nil
}

func (fb *funcBuilder) buildCall(e *ast.Expr) (*Expr, error) {
	data := e.Data.(ast.CallData)
	idx, ok := fb.b.sigIndex[data.Name]
	if !ok {
		return nil, fb.b.fail(diag.LowUnknownCallee, data.NameSpan,
			fmt.Sprintf("cannot find function %q", data.Name))
	}
	sig := fb.b.sigs[idx]
	if len(data.Args) != len(sig.params) {
		return nil, fb.b.fail(diag.LowArityMismatch, e.Span,
			fmt.Sprintf("function %q takes %d argument(s), %d supplied",
				data.Name, len(sig.params), len(data.Args)))
	}

	args := make([]*Expr, 0, len(data.Args))
	for i, astArg := range data.Args {
		captured, val, err := fb.buildCaptured(astArg, sig.params[i])
		if err != nil {
			return nil, err
		}
		if len(captured) > 0 {
			for j := range args {
				args[j] = fb.pin(args[j])
			}
			fb.emitAll(captured)
		}
		if val.Type != sig.params[i] {
			return nil, fb.typeMismatch(astArg.Span, sig.params[i], val.Type)
		}
		args = append(args, val)
	}

	return &Expr{
		Kind: ExprCall, Type: sig.result, Span: e.Span,
		Data: CallData{Callee: idx, Args: args},
	}, nil
}

// buildBlockExpr lowers a block expression by hoisting its statements into
// the current statement list inside a fresh scope. The value is the tail
// expression, or unit when the block has none.
func (fb *funcBuilder) buildBlockExpr(e *ast.Expr, expected types.TypeID) (*Expr, error) {
	data := e.Data.(ast.BlockData)
	fb.pushScope()
	defer fb.popScope()

	for i := range data.Block.Stmts {
		if err := fb.buildStmt(&data.Block.Stmts[i]); err != nil {
			return nil, err
		}
	}
	if data.Block.Tail == nil {
		return fb.unitValue(e.Span), nil
	}
	return fb.buildExpr(data.Block.Tail, expected)
}

// buildIfExpr rewrites 'if c { a } else { b }' in value position into an if
// statement assigning both arms to a synthesized temporary, then yields a
// reference to that temporary. Unit-typed arms skip the temporary.
func (fb *funcBuilder) buildIfExpr(e *ast.Expr, expected types.TypeID) (*Expr, error) {
	data := e.Data.(ast.IfExprData)
	cond, err := fb.buildCond(data.Cond)
	if err != nil {
		return nil, err
	}

	thenBlk := &Block{Span: data.Then.Span}
	thenVal, err := fb.buildArm(data.Then, thenBlk, expected)
	if err != nil {
		return nil, err
	}
	elseBlk := &Block{Span: data.Else.Span}
	elseVal, err := fb.buildArm(data.Else, elseBlk, thenVal.Type)
	if err != nil {
		return nil, err
	}
	if elseVal.Type != thenVal.Type {
		return nil, fb.b.fail(diag.LowTypeMismatch, data.Else.Span,
			fmt.Sprintf("if arms disagree: expected %s, found %s",
				fb.b.in.Name(thenVal.Type), fb.b.in.Name(elseVal.Type)))
	}

	if fb.b.in.IsUnit(thenVal.Type) {
		fb.emit(Stmt{Kind: StmtIf, Span: e.Span, Data: IfData{Cond: cond, Then: thenBlk, Else: elseBlk}})
		return fb.unitValue(e.Span), nil
	}

	tmp := fb.newTemp("if", thenVal.Type, e.Span)
	thenBlk.Stmts = append(thenBlk.Stmts, Stmt{
		Kind: StmtAssign, Span: thenVal.Span,
		Data: AssignData{Local: tmp, Value: thenVal},
	})
	elseBlk.Stmts = append(elseBlk.Stmts, Stmt{
		Kind: StmtAssign, Span: elseVal.Span,
		Data: AssignData{Local: tmp, Value: elseVal},
	})
	fb.emit(Stmt{Kind: StmtIf, Span: e.Span, Data: IfData{Cond: cond, Then: thenBlk, Else: elseBlk}})
	return fb.varRef(tmp, e.Span), nil
}

// buildArm lowers one if-expression arm with statement emission redirected
// into the arm's block.
func (fb *funcBuilder) buildArm(arm *ast.Expr, dst *Block, expected types.TypeID) (*Expr, error) {
	prev := fb.stmts
	fb.stmts = &dst.Stmts
	defer func() { fb.stmts = prev }()
	return fb.buildExpr(arm, expected)
}

// buildCaptured lowers an expression with hoisted statements collected
// instead of emitted, so the caller can decide where they run.
func (fb *funcBuilder) buildCaptured(e *ast.Expr, expected types.TypeID) ([]Stmt, *Expr, error) {
	var captured []Stmt
	prev := fb.stmts
	fb.stmts = &captured
	val, err := fb.buildExpr(e, expected)
	fb.stmts = prev
	if err != nil {
		return nil, nil, err
	}
	return captured, val, nil
}

// pin materializes an already-built operand into a temporary so statements
// hoisted by a later operand cannot reorder its evaluation. Literals and
// reads of immutable locals are order-insensitive and pass through.
func (fb *funcBuilder) pin(e *Expr) *Expr {
	switch e.Kind {
	case ExprLiteral:
		return e
	case ExprVarRef:
		if !fb.fn.Locals[e.Data.(VarRefData).Local].IsMut {
			return e
		}
	}
	tmp := fb.addLocal(fmt.Sprintf("$tmp%d", fb.tempSeq), e.Type, false, e.Span)
	fb.tempSeq++
	fb.emit(Stmt{Kind: StmtLet, Span: e.Span, Data: LetData{Local: tmp, Value: e}})
	return fb.varRef(tmp, e.Span)
}

// newTemp adds a synthesized uninitialized temporary and emits its Let.
func (fb *funcBuilder) newTemp(prefix string, ty types.TypeID, span source.Span) LocalID {
	tmp := fb.addLocal(fmt.Sprintf("$%s%d", prefix, fb.tempSeq), ty, true, span)
	fb.tempSeq++
	fb.emit(Stmt{Kind: StmtLet, Span: span, Data: LetData{Local: tmp}})
	return tmp
}

func (fb *funcBuilder) emitAll(stmts []Stmt) {
	*fb.stmts = append(*fb.stmts, stmts...)
}

func (fb *funcBuilder) varRef(id LocalID, span source.Span) *Expr {
	return &Expr{
		Kind: ExprVarRef, Type: fb.fn.Locals[id].Type, Span: span,
		Data: VarRefData{Local: id},
	}
}

func (fb *funcBuilder) boolLit(v int64, span source.Span) *Expr {
	return &Expr{
		Kind: ExprLiteral, Type: fb.b.in.Builtins().Bool, Span: span,
		Data: LiteralData{Int: v},
	}
}

func (fb *funcBuilder) unitValue(span source.Span) *Expr {
	return &Expr{
		Kind: ExprLiteral, Type: fb.b.in.Builtins().Unit, Span: span,
		Data: LiteralData{},
	}
}
