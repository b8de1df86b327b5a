package mir

import (
	"fmt"

	"rustic/internal/ast"
	"rustic/internal/hir"
)

var binOpFromAST = map[ast.BinaryOp]BinOp{
	ast.BinAdd:    BinAdd,
	ast.BinSub:    BinSub,
	ast.BinMul:    BinMul,
	ast.BinDiv:    BinDiv,
	ast.BinRem:    BinRem,
	ast.BinBitAnd: BinAnd,
	ast.BinBitOr:  BinOr,
	ast.BinBitXor: BinXor,
	ast.BinShl:    BinShl,
	ast.BinShr:    BinShr,
	ast.BinEq:     BinCmpEq,
	ast.BinNe:     BinCmpNe,
	ast.BinLt:     BinCmpLt,
	ast.BinLe:     BinCmpLe,
	ast.BinGt:     BinCmpGt,
	ast.BinGe:     BinCmpGe,
}

// lowerExpr flattens an expression into instructions in the cursor block
// and returns the operand carrying its value. Unit-typed values have no
// representation and come back as the none operand.
func (l *funcLowerer) lowerExpr(e *hir.Expr) (Operand, error) {
	switch e.Kind {
	case hir.ExprLiteral:
		data, ok := e.Data.(hir.LiteralData)
		if !ok {
			return Operand{}, fmt.Errorf("mir: literal: unexpected payload %T", e.Data)
		}
		if l.in.IsUnit(e.Type) {
			return Operand{Kind: OperandNone, Type: e.Type}, nil
		}
		return ConstOperand(e.Type, data.Int), nil

	case hir.ExprVarRef:
		data, ok := e.Data.(hir.VarRefData)
		if !ok {
			return Operand{}, fmt.Errorf("mir: var ref: unexpected payload %T", e.Data)
		}
		if l.in.IsUnit(e.Type) {
			return Operand{Kind: OperandNone, Type: e.Type}, nil
		}
		dst := l.newValue()
		l.emit(&Instr{
			Kind: InstrLoad,
			Load: LoadInstr{Dst: dst, Type: e.Type, Slot: SlotID(data.Local)},
		})
		return RegOperand(e.Type, dst), nil

	case hir.ExprUnaryOp:
		data, ok := e.Data.(hir.UnaryData)
		if !ok {
			return Operand{}, fmt.Errorf("mir: unary: unexpected payload %T", e.Data)
		}
		operand, err := l.lowerExpr(data.Operand)
		if err != nil {
			return Operand{}, err
		}
		op := UnNeg
		if data.Op == ast.UnaryNot {
			op = UnNot
		}
		dst := l.newValue()
		l.emit(&Instr{
			Kind: InstrUnOp,
			Un:   UnInstr{Dst: dst, Type: e.Type, Op: op, Operand: operand},
		})
		return RegOperand(e.Type, dst), nil

	case hir.ExprBinaryOp:
		data, ok := e.Data.(hir.BinaryData)
		if !ok {
			return Operand{}, fmt.Errorf("mir: binary: unexpected payload %T", e.Data)
		}
		if data.Op.IsLogical() {
			return l.lowerLogical(e, data)
		}
		op, ok := binOpFromAST[data.Op]
		if !ok {
			return Operand{}, fmt.Errorf("mir: no lowering for operator %s", data.Op)
		}
		lhs, err := l.lowerExpr(data.Left)
		if err != nil {
			return Operand{}, err
		}
		rhs, err := l.lowerExpr(data.Right)
		if err != nil {
			return Operand{}, err
		}
		dst := l.newValue()
		l.emit(&Instr{
			Kind: InstrBinOp,
			Bin:  BinInstr{Dst: dst, Type: e.Type, Op: op, LHS: lhs, RHS: rhs},
		})
		return RegOperand(e.Type, dst), nil

	case hir.ExprCall:
		return l.lowerCall(e)

	default:
		return Operand{}, fmt.Errorf("mir: unexpected expression kind %s", e.Kind)
	}
}

// lowerLogical branches so the right operand runs only when it can change
// the result. The value flows through a dedicated bool slot: the left
// operand is stored first and already is the answer on the short path,
// the right operand overwrites it on the long path.
func (l *funcLowerer) lowerLogical(e *hir.Expr, data hir.BinaryData) (Operand, error) {
	slot := l.newTempSlot("sc", e.Type)

	lhs, err := l.lowerExpr(data.Left)
	if err != nil {
		return Operand{}, err
	}
	l.emit(&Instr{Kind: InstrStore, Store: StoreInstr{Slot: slot, Val: lhs}})

	rhsBB := l.newBlock()
	joinBB := l.newBlock()
	term := BranchTerm{Cond: lhs, Then: rhsBB, Else: joinBB}
	if data.Op == ast.BinLogicalOr {
		term.Then, term.Else = joinBB, rhsBB
	}
	l.setTerm(&Terminator{Kind: TermBranch, Branch: term})

	l.startBlock(rhsBB)
	rhs, err := l.lowerExpr(data.Right)
	if err != nil {
		return Operand{}, err
	}
	l.emit(&Instr{Kind: InstrStore, Store: StoreInstr{Slot: slot, Val: rhs}})
	l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBB}})

	l.startBlock(joinBB)
	dst := l.newValue()
	l.emit(&Instr{
		Kind: InstrLoad,
		Load: LoadInstr{Dst: dst, Type: e.Type, Slot: slot},
	})
	return RegOperand(e.Type, dst), nil
}

// lowerCall evaluates arguments left to right, then issues the call. Each
// call result lands in a fresh register; unit-returning calls define
// nothing.
func (l *funcLowerer) lowerCall(e *hir.Expr) (Operand, error) {
	data, ok := e.Data.(hir.CallData)
	if !ok {
		return Operand{}, fmt.Errorf("mir: call: unexpected payload %T", e.Data)
	}
	args := make([]Operand, 0, len(data.Args))
	for _, arg := range data.Args {
		op, err := l.lowerExpr(arg)
		if err != nil {
			return Operand{}, err
		}
		args = append(args, op)
	}

	call := CallInstr{Callee: FuncID(data.Callee), Type: e.Type, Args: args}
	if l.in.IsUnit(e.Type) {
		l.emit(&Instr{Kind: InstrCall, Call: call})
		return Operand{Kind: OperandNone, Type: e.Type}, nil
	}
	call.HasDst = true
	call.Dst = l.newValue()
	l.emit(&Instr{Kind: InstrCall, Call: call})
	return RegOperand(e.Type, call.Dst), nil
}
